package postgres

import "github.com/jackc/pgx/v5/pgtype"

// PgtextToStringPtr converts pgtype.Text to *string
func PgtextToStringPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

// PgfloatToFloatPtr converts pgtype.Float8 to *float64
func PgfloatToFloatPtr(f pgtype.Float8) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}

// PgintToFloatPtr converts pgtype.Int4 to *float64
func PgintToFloatPtr(i pgtype.Int4) *float64 {
	if !i.Valid {
		return nil
	}
	v := float64(i.Int32)
	return &v
}
