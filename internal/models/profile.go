package models

import "time"

const DefaultWeeklyHoursAvailable = 40

// Profile carries the role and capacity of a user. Every user owns exactly one.
type Profile struct {
	ID                    uint64    `gorm:"primarykey" json:"id"`
	UserID                uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	Role                  Role      `gorm:"type:varchar(20);not null" json:"role"`
	Department            string    `gorm:"type:varchar(100)" json:"department"`
	Phone                 string    `gorm:"type:varchar(20)" json:"phone"`
	Bio                   string    `gorm:"type:text" json:"bio"`
	WeeklyHoursAvailable  uint      `gorm:"not null" json:"weekly_hours_available"`
	CurrentHoursAllocated float64   `gorm:"type:decimal(5,2);not null" json:"current_hours_allocated"`
	IsActiveMember        bool      `gorm:"not null" json:"is_active_member"`
	JoinDate              time.Time `gorm:"autoCreateTime" json:"join_date"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewProfile returns a profile populated with the column defaults. The
// defaults live here rather than in gorm tags so that zero values such as
// IsActiveMember=false or WeeklyHoursAvailable=0 survive an insert.
func NewProfile(userID uint64, role Role) *Profile {
	return &Profile{
		UserID:               userID,
		Role:                 role,
		WeeklyHoursAvailable: DefaultWeeklyHoursAvailable,
		IsActiveMember:       true,
	}
}

// AvailabilityPercentage is allocated/available as a percentage, clamped to [0, 100].
func (p Profile) AvailabilityPercentage() float64 {
	if p.WeeklyHoursAvailable <= 0 {
		return 0
	}
	pct := p.CurrentHoursAllocated / float64(p.WeeklyHoursAvailable) * 100
	switch {
	case pct > 100:
		return 100
	case pct < 0:
		return 0
	}
	return pct
}

// AvailabilityLabel buckets AvailabilityPercentage for display.
func (p Profile) AvailabilityLabel() string {
	pct := p.AvailabilityPercentage()
	switch {
	case pct >= 100:
		return "overloaded"
	case pct >= 80:
		return "busy"
	case pct >= 50:
		return "available"
	default:
		return "free"
	}
}
