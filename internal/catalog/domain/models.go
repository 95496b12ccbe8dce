package domain

import (
	"fmt"
	"strconv"
	"time"
)

type ItemType string

const (
	ItemTypeEvent    ItemType = "event"
	ItemTypeWorkshop ItemType = "workshop"
)

// Production is a full-length staged work.
type Production struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Slug      string    `gorm:"not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Solo is a single-performer work. Events link to a production or a solo, never both.
type Solo struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Slug      string    `gorm:"not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Event is one staged occurrence of a production or solo.
type Event struct {
	ID              int64       `gorm:"primaryKey" json:"id"`
	UID             string      `gorm:"not null;uniqueIndex" json:"uid"`
	Date            time.Time   `gorm:"not null" json:"date"`
	Venue           string      `gorm:"not null;default:''" json:"venue"`
	ProductionID    *int64      `json:"production_id,omitempty"`
	SoloID          *int64      `json:"solo_id,omitempty"`
	MuxLivestreamID string      `gorm:"not null;default:''" json:"mux_livestream_id"`
	Production      *Production `gorm:"foreignKey:ProductionID" json:"production,omitempty"`
	Solo            *Solo       `gorm:"foreignKey:SoloID" json:"solo,omitempty"`
	CreatedAt       time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Workshop is a multi-session teaching engagement sold as a single item.
type Workshop struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	Slug      string          `gorm:"not null;uniqueIndex" json:"slug"`
	Title     string          `gorm:"not null" json:"title"`
	StartDate time.Time       `gorm:"not null" json:"start_date"`
	EndDate   time.Time       `gorm:"not null" json:"end_date"`
	Venue     string          `gorm:"not null;default:''" json:"venue"`
	Sessions  []SessionDetail `gorm:"foreignKey:WorkshopID" json:"sessions,omitempty"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// SessionDetail is one scheduled meeting within a workshop.
type SessionDetail struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	WorkshopID      int64     `gorm:"not null;index" json:"workshop_id"`
	StartsAt        time.Time `gorm:"not null" json:"starts_at"`
	EndsAt          time.Time `gorm:"not null" json:"ends_at"`
	Topic           string    `gorm:"not null;default:''" json:"topic"`
	MuxLivestreamID string    `gorm:"not null;default:''" json:"mux_livestream_id"`
	ZoomLink        string    `gorm:"not null;default:''" json:"zoom_link"`
}

// TicketTier is one pricing/capacity bucket within a bookable item. Names are
// unique per item and compared case-sensitively; they travel through gateway
// metadata as the tier's lookup key.
type TicketTier struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	ItemType       ItemType  `gorm:"not null" json:"item_type"`
	ItemID         int64     `gorm:"not null" json:"item_id"`
	Name           string    `gorm:"not null" json:"name"`
	Price          int64     `gorm:"not null" json:"price"`
	Capacity       int       `gorm:"not null" json:"capacity"`
	TicketsSold    int       `gorm:"not null;default:0" json:"tickets_sold"`
	IsOnlineAccess bool      `gorm:"not null;default:false" json:"is_online_access"`
	IsZoomAccess   bool      `gorm:"not null;default:false" json:"is_zoom_access"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TicketTier) TableName() string { return "ticket_tiers" }

func (t TicketTier) SoldOut() bool {
	return t.TicketsSold >= t.Capacity
}

// ScheduleUnit is one streamable/joinable slot of a bookable item: the single
// livestream of an event, or one session of a workshop.
type ScheduleUnit struct {
	Label           string
	EndsAt          time.Time
	MuxLivestreamID string
	ZoomLink        string
}

// BookableItem is the tagged variant over events and workshops, carrying the
// shared surface the order pipeline needs.
type BookableItem struct {
	Type     ItemType
	Event    *Event
	Workshop *Workshop
	Tiers    []TicketTier
}

func (b *BookableItem) ID() int64 {
	if b.Type == ItemTypeWorkshop {
		return b.Workshop.ID
	}
	return b.Event.ID
}

// Code is the external-facing stable identifier carried through gateway metadata.
func (b *BookableItem) Code() string {
	if b.Type == ItemTypeWorkshop {
		return b.Workshop.Slug
	}
	return b.Event.UID
}

func (b *BookableItem) Title() string {
	if b.Type == ItemTypeWorkshop {
		return b.Workshop.Title
	}
	if b.Event.Production != nil {
		return b.Event.Production.Title
	}
	if b.Event.Solo != nil {
		return b.Event.Solo.Title
	}
	return ""
}

func (b *BookableItem) Venue() string {
	if b.Type == ItemTypeWorkshop {
		if b.Workshop.Venue != "" {
			return b.Workshop.Venue
		}
		return "Workshop"
	}
	return b.Event.Venue
}

// ScheduleLabel renders the item's dates for correspondence.
func (b *BookableItem) ScheduleLabel() string {
	if b.Type == ItemTypeWorkshop {
		return fmt.Sprintf("%s - %s",
			b.Workshop.StartDate.Format("Jan 2, 2006"),
			b.Workshop.EndDate.Format("Jan 2, 2006"),
		)
	}
	return b.Event.Date.Format("Jan 2, 2006 3:04 PM MST")
}

// ScheduleUnits returns the streamable slots access provisioning iterates over.
func (b *BookableItem) ScheduleUnits() []ScheduleUnit {
	if b.Type == ItemTypeWorkshop {
		units := make([]ScheduleUnit, 0, len(b.Workshop.Sessions))
		for _, s := range b.Workshop.Sessions {
			label := s.Topic
			if label == "" {
				label = "Session " + strconv.Itoa(len(units)+1)
			}
			units = append(units, ScheduleUnit{
				Label:           label,
				EndsAt:          s.EndsAt,
				MuxLivestreamID: s.MuxLivestreamID,
				ZoomLink:        s.ZoomLink,
			})
		}
		return units
	}
	return []ScheduleUnit{{
		Label:           "Livestream",
		EndsAt:          b.Event.Date,
		MuxLivestreamID: b.Event.MuxLivestreamID,
	}}
}

// FindTier looks up a tier by exact name. Case-sensitive by design: the name
// round-trips through the gateway as an opaque string.
func (b *BookableItem) FindTier(name string) *TicketTier {
	for i := range b.Tiers {
		if b.Tiers[i].Name == name {
			return &b.Tiers[i]
		}
	}
	return nil
}
