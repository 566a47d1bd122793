package main

import (
	"context"
	"flag"
	"os"

	"foodgram/cmd/config"
	migration "foodgram/cmd/database/migrate"
	"foodgram/cmd/database/seed"
	"foodgram/internal/utils"
)

func main() {
	seedTags := flag.String("seed-tags", "", "load tags from a name,color,slug CSV file and exit")
	seedIngredients := flag.String("seed-ingredients", "", "load ingredients from a name,measurement_unit CSV file and exit")
	flag.Parse()

	utils.LoadConfig()
	log := utils.InitLogger()

	db, err := config.ConnectDB()
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	if err := migration.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	if *seedTags != "" || *seedIngredients != "" {
		ctx := context.Background()
		if *seedTags != "" {
			if err := seed.FromFile(ctx, db, log, *seedTags, seed.Tags); err != nil {
				log.WithError(err).Fatal("failed to seed tags")
			}
		}
		if *seedIngredients != "" {
			if err := seed.FromFile(ctx, db, log, *seedIngredients, seed.Ingredients); err != nil {
				log.WithError(err).Fatal("failed to seed ingredients")
			}
		}
		os.Exit(0)
	}

	app, err := config.NewApp(db, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build app")
	}

	if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
