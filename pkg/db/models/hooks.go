package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Primary keys default to gen_random_uuid() in Postgres; these hooks cover
// drivers without that default so associated rows always insert with distinct
// ids.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

func (l *OrderLine) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

func (p *SubscriptionPlan) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (s *UserSubscription) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (i *SubscriptionItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
