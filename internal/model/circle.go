package model

// Types of the Nextcloud Circles OCS API

// UserType is the kind of a circle member
type UserType int

// user types
const (
	UserTypeSingle  UserType = 0
	UserTypeUser    UserType = 1
	UserTypeGroup   UserType = 2
	UserTypeMail    UserType = 4
	UserTypeContact UserType = 8
	UserTypeCircle  UserType = 16
	UserTypeApp     UserType = 10000
)

// MemberLevel is the permission level inside a circle
type MemberLevel int

// member levels
const (
	MemberLevelNone      MemberLevel = 0
	MemberLevelMember    MemberLevel = 1
	MemberLevelModerator MemberLevel = 4
	MemberLevelAdmin     MemberLevel = 8
	MemberLevelOwner     MemberLevel = 9
)

// MemberStatus is the membership state
type MemberStatus string

// member statuses
const (
	MemberStatusInvited   MemberStatus = "Invited"
	MemberStatusRequested MemberStatus = "Requesting"
	MemberStatusMember    MemberStatus = "Member"
	MemberStatusBlocked   MemberStatus = "Blocked"
)

// BasedOn describes the entity a member is backed by
type BasedOn struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Circle is a Nextcloud circle
type Circle struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DisplayName   string    `json:"displayName"`
	SanitizedName string    `json:"sanitizedName"`
	Description   string    `json:"description"`
	Population    int       `json:"population"`
	Creation      Timestamp `json:"creation"`
}

// CircleMember is a member of a circle
type CircleMember struct {
	ID          string       `json:"id"`
	CircleID    string       `json:"circleId"`
	SingleID    string       `json:"singleId"`
	UserID      string       `json:"userId"`
	DisplayName string       `json:"displayName"`
	UserType    UserType     `json:"userType"`
	Level       MemberLevel  `json:"level"`
	Status      MemberStatus `json:"status"`
	BasedOn     *BasedOn     `json:"basedOn"`
}

// IsActiveUser reports whether the member is a confirmed single Nextcloud account
func (m CircleMember) IsActiveUser() bool {
	return m.Status == MemberStatusMember && m.UserType == UserTypeUser
}

// AsUser converts the member into a User. The backing account's display name
// is preferred since the member display name may be circle specific.
func (m CircleMember) AsUser() User {
	name := m.DisplayName
	if m.BasedOn != nil && m.BasedOn.DisplayName != "" {
		name = m.BasedOn.DisplayName
	}
	return User{Name: name, ID: m.UserID}
}
