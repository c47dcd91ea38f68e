package model

// Project is the ownership boundary for assets and locations.
type Project struct {
	BaseModel
	ProjectId   string `gorm:"column:project_id;not null;uniqueIndex" json:"projectId"`
	Name        string `gorm:"column:name;not null" json:"name"`
	Description string `gorm:"column:description" json:"description"`
	IsEnabled   int    `gorm:"column:is_enabled;not null;default:1" json:"isEnabled"`
}

func (Project) TableName() string {
	return "t_project"
}

// Location is one node of the region > state > plaza > office hierarchy,
// owned by a project. Consumed read-only by the scope filter.
type Location struct {
	BaseModel
	LocationId string `gorm:"column:location_id;not null;uniqueIndex" json:"locationId"`
	Name       string `gorm:"column:name;not null" json:"name"`
	Region     string `gorm:"column:region;index" json:"region"`
	State      string `gorm:"column:state" json:"state"`
	Plaza      string `gorm:"column:plaza" json:"plaza"`
	Office     string `gorm:"column:office" json:"office"`
	ProjectId  string `gorm:"column:project_id;index" json:"projectId"`
}

func (Location) TableName() string {
	return "t_location"
}

// LocationKey is the hierarchy tuple the scope filter matches on.
type LocationKey struct {
	Region    string
	State     string
	Plaza     string
	Office    string
	ProjectId string
}

// Key implements Locatable for Location.
func (l Location) Key() LocationKey {
	return LocationKey{
		Region:    l.Region,
		State:     l.State,
		Plaza:     l.Plaza,
		Office:    l.Office,
		ProjectId: l.ProjectId,
	}
}

// Asset is an IT asset. Its status backs the engine's resource-liveness rule.
type Asset struct {
	BaseModel
	AssetId    string      `gorm:"column:asset_id;not null;uniqueIndex" json:"assetId"`
	Tag        string      `gorm:"column:tag;not null" json:"tag"`
	Name       string      `gorm:"column:name" json:"name"`
	Status     AssetStatus `gorm:"column:status;not null;default:ACTIVE" json:"status"`
	LocationId string      `gorm:"column:location_id;index" json:"locationId"`
	ProjectId  string      `gorm:"column:project_id;index" json:"projectId"`
}

func (Asset) TableName() string {
	return "t_asset"
}
