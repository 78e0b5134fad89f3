package model

import (
	"time"

	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Count{},
	&Deck{},
}

// Count is the running total of one answer to one question within a
// behaviour group.
type Count struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UpdatedAt time.Time `json:"updatedAt"`
	GroupName string    `json:"group" gorm:"size:255;not null;uniqueIndex:idx_counts_key"`
	Question  string    `json:"question" gorm:"size:255;not null;uniqueIndex:idx_counts_key"`
	Answer    string    `json:"answer" gorm:"size:255;not null;uniqueIndex:idx_counts_key"`
	Value     int64     `json:"value" gorm:"not null;default:0"`
}

func (*Count) TableName() string {
	return "counts"
}

// Deck is an archived set of slides parsed from one carousel of an article.
type Deck struct {
	ID            string         `json:"id" gorm:"primarykey;size:36"`
	CreatedAt     time.Time      `json:"createdAt"`
	ArticleID     string         `json:"articleId" gorm:"size:64;index:idx_decks_article"`
	CarouselIndex int            `json:"carouselIndex" gorm:"index:idx_decks_article"`
	SlideCount    int            `json:"slideCount"`
	Slides        datatypes.JSON `json:"slides"`
}

func (*Deck) TableName() string {
	return "decks"
}
