package model

// User is a directory account. RoleId is the single role assignment;
// ProjectId is the home project used by the location filter's isolation gate.
// The four restriction fields narrow location visibility, most specific wins.
type User struct {
	BaseModel
	UserId    string `gorm:"column:user_id;not null;uniqueIndex" json:"userId"`
	Username  string `gorm:"column:username;not null" json:"username"`
	FirstName string `gorm:"column:first_name" json:"firstName"`
	LastName  string `gorm:"column:last_name" json:"lastName"`
	Email     string `gorm:"column:email" json:"email"`
	Phone     string `gorm:"column:phone" json:"phone"`
	IsEnabled int    `gorm:"column:is_enabled;not null;default:1" json:"isEnabled"` // 0: disabled, 1: enabled
	RoleId    string `gorm:"column:role_id;index" json:"roleId"`
	ProjectId string `gorm:"column:project_id;index" json:"projectId"`
	Region    string `gorm:"column:region" json:"region"`
	State     string `gorm:"column:state" json:"state"`
	Plaza     string `gorm:"column:plaza" json:"plaza"`
	Office    string `gorm:"column:office" json:"office"`
}

func (User) TableName() string {
	return "t_user"
}

func (u *User) Active() bool {
	return u.IsEnabled == UserEnabled
}
