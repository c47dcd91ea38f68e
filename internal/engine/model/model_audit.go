// Copyright 2025 Assetdesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import "time"

// AccessAttemptRecord is one immutable resolution decision. Append-only;
// rows are never updated or deleted.
type AccessAttemptRecord struct {
	ID             uint64           `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RecordId       string           `gorm:"column:record_id;not null;uniqueIndex" json:"recordId"`
	UserId         string           `gorm:"column:user_id;not null;index" json:"userId"`
	PermissionCode string           `gorm:"column:permission_code;not null;index" json:"permissionCode"`
	ResourceId     *string          `gorm:"column:resource_id" json:"resourceId,omitempty"`
	ProjectId      *string          `gorm:"column:project_id" json:"projectId,omitempty"`
	Granted        bool             `gorm:"column:granted;not null" json:"granted"`
	Method         ResolutionMethod `gorm:"column:method;not null" json:"method"`
	Reason         string           `gorm:"column:reason" json:"reason"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
}

func (AccessAttemptRecord) TableName() string {
	return "t_access_attempt_record"
}

// PermissionChangeRecord is one immutable administrative mutation.
type PermissionChangeRecord struct {
	ID           uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RecordId     string       `gorm:"column:record_id;not null;uniqueIndex" json:"recordId"`
	ActorId      string       `gorm:"column:actor_id;not null;index" json:"actorId"`
	RoleId       *string      `gorm:"column:role_id;index" json:"roleId,omitempty"`
	PermissionId *string      `gorm:"column:permission_id" json:"permissionId,omitempty"`
	TargetUserId *string      `gorm:"column:target_user_id" json:"targetUserId,omitempty"`
	Action       ChangeAction `gorm:"column:action;not null;index" json:"action"`
	OldValue     string       `gorm:"column:old_value" json:"oldValue"`
	NewValue     string       `gorm:"column:new_value" json:"newValue"`
	Reason       string       `gorm:"column:reason" json:"reason"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
}

func (PermissionChangeRecord) TableName() string {
	return "t_permission_change_record"
}

// AccessAttemptFilter narrows an access-attempt query. Zero fields match
// everything; PageNum is 1-based.
type AccessAttemptFilter struct {
	UserId         string     `json:"userId"`
	PermissionCode string     `json:"permissionCode"`
	Granted        *bool      `json:"granted,omitempty"`
	Method         string     `json:"method"`
	From           *time.Time `json:"from,omitempty"`
	To             *time.Time `json:"to,omitempty"`
	PageNum        int        `json:"pageNum"`
	PageSize       int        `json:"pageSize"`
}

// ChangeRecordFilter narrows a permission-change query.
type ChangeRecordFilter struct {
	ActorId      string     `json:"actorId"`
	RoleId       string     `json:"roleId"`
	PermissionId string     `json:"permissionId"`
	TargetUserId string     `json:"targetUserId"`
	Action       string     `json:"action"`
	From         *time.Time `json:"from,omitempty"`
	To           *time.Time `json:"to,omitempty"`
	PageNum      int        `json:"pageNum"`
	PageSize     int        `json:"pageSize"`
}
