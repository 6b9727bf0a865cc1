package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name           string         `json:"name" binding:"required"`
	Slug           string         `json:"slug" binding:"required" gorm:"uniqueIndex;size:191"`
	Description    string         `json:"description" binding:"required"`
	Price          float64        `json:"price" binding:"required"`
	MRP            float64        `json:"mrp"`
	Stock          int            `json:"stock"`
	Category       string         `json:"category" binding:"required"`
	Weight         string         `json:"weight"`
	ImageURL       string         `json:"imageUrl"`
	Images         datatypes.JSON `json:"images"`
	Ingredients    datatypes.JSON `json:"ingredients"`
	NutritionFacts datatypes.JSON `json:"nutritionFacts"`
	MetaTitle      string         `json:"metaTitle"`
	MetaDesc       string         `json:"metaDescription"`
	Featured       bool           `json:"featured"`
}
