package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// requiredTables はパイプラインの前提となるリレーション
var requiredTables = []string{"movies", "ratings", "users"}

// CheckRequiredTables は前提テーブルの存在を確認し、欠けている場合は
// エラーを返します。埋め込み処理の開始前に呼ばれる。
func CheckRequiredTables(ctx context.Context, pool *pgxpool.Pool) error {
	rows, err := pool.Query(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = ANY($1)
	`, requiredTables)
	if err != nil {
		return fmt.Errorf("failed to check required tables: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(requiredTables))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan table name: %w", err)
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate table names: %w", err)
	}

	var missing []string
	for _, table := range requiredTables {
		if !found[table] {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tables not found: %s (load the MovieLens dataset first)", strings.Join(missing, ", "))
	}

	return nil
}
