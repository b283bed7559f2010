package migrations

import _ "embed"

//go:embed 2024112203_create_users.sql
var createUsersSQL string

func init() {
	Migrations.MustRegister(execSQL(createUsersSQL), dropTable("users"))
}
