package model

import (
	"fmt"

	"gorm.io/gorm"
)

// registry of migratable models by key
var models = map[string]any{
	"User":        &User{},
	"Course":      &Course{},
	"UserCourse":  &UserCourse{},
	"TodoList":    &TodoList{},
	"TodoItem":    &TodoItem{},
	"File":        &File{},
	"ShareGrant":  &ShareGrant{},
	"Participant": &Participant{},
	"Presence":    &Presence{},
	"ActivityLog": &ActivityLog{},
}

// migrate order, parents before children
var order = []string{"User", "Course", "UserCourse", "TodoList", "TodoItem", "File", "ShareGrant", "Participant", "Presence", "ActivityLog"}

// AutoMigrate migrates the models named by keys, or every model when keys is empty
// AutoMigrate 迁移指定的模型，keys 为空时迁移全部
func AutoMigrate(db *gorm.DB, keys ...string) error {
	if len(keys) == 0 {
		keys = order
	}
	for _, key := range keys {
		m, ok := models[key]
		if !ok {
			return fmt.Errorf("model %s not registered", key)
		}
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}
	return nil
}
