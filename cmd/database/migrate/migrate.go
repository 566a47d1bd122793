package migration

import (
	"fmt"

	"foodgram/entities"

	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&entities.User{},
		&entities.Follow{},
		&entities.RevokedToken{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.IngredientRecipe{},
		&entities.TagsRecipe{},
		&entities.Favorite{},
		&entities.ShoppingCart{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}
	return nil
}
