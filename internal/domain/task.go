package domain

// Column bounds for Task, counted in characters.
const (
	TitleMaxLength       = 70
	DescriptionMaxLength = 100
)

type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:70;not null;uniqueIndex"`
	Description string `gorm:"size:100"`
}
