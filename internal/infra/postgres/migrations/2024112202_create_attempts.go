package migrations

import _ "embed"

//go:embed 2024112202_create_attempts.sql
var createAttemptsSQL string

func init() {
	Migrations.MustRegister(execSQL(createAttemptsSQL), dropTable("attempts"))
}
