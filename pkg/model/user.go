package model

// User maps TestLink's users table. The login is unique; ScriptKey holds the
// 32-character devKey TestLink checks on XML-RPC calls.
type User struct {
	ID                   int    `gorm:"column:id;primaryKey;autoIncrement"`
	Login                string `gorm:"column:login;uniqueIndex"`
	Password             string `gorm:"column:password"`
	RoleID               int    `gorm:"column:role_id"`
	Email                string `gorm:"column:email"`
	First                string `gorm:"column:first"`
	Last                 string `gorm:"column:last"`
	Locale               string `gorm:"column:locale"`
	DefaultTestprojectID int    `gorm:"column:default_testproject_id"`
	Active               int    `gorm:"column:active"`
	ScriptKey            string `gorm:"column:script_key"`
	AuthMethod           string `gorm:"column:auth_method"`
}

func (User) TableName() string {
	return "users"
}
