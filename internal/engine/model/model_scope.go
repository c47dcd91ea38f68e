package model

// UserScope confines a user's access to a project, or widens it globally.
// Any GLOBAL row dominates every PROJECT row the user holds.
type UserScope struct {
	BaseModel
	ScopeId   string    `gorm:"column:scope_id;not null;uniqueIndex" json:"scopeId"`
	UserId    string    `gorm:"column:user_id;not null;index" json:"userId"`
	ScopeType ScopeType `gorm:"column:scope_type;not null" json:"scopeType"`
	ProjectId *string   `gorm:"column:project_id" json:"projectId,omitempty"`
	GrantedBy string    `gorm:"column:granted_by" json:"grantedBy"`
}

func (UserScope) TableName() string {
	return "t_user_scope"
}
