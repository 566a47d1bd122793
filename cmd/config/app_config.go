package config

import (
	"errors"
	"os"
	"time"

	"foodgram/internal/api/handlers"
	"foodgram/internal/api/routes"
	"foodgram/internal/metrics"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/auth"
	"foodgram/pkg/follow"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// bodyLimit leaves room for a base64 encoded image at the maximum size.
const bodyLimit = 10 * 1024 * 1024

type Dependencies struct {
	DB        *gorm.DB
	Storage   storage.FileStorage
	JWT       jwt.JWTService
	Mailer    mailing.Mailer
	Metrics   *metrics.Metrics
	Logger    *logrus.Logger
	MediaRoot string
}

func NewFiber() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "foodgram",
		BodyLimit: bodyLimit,
	})
}

func NewApp(db *gorm.DB, log *logrus.Logger) (*fiber.App, error) {
	secret := utils.GetConfig("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	app := NewFiber()
	app.Use(recover.New())

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, err
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        utils.GetConfigInt("RATE_LIMIT_MAX", 20),
		Expiration: 1 * time.Second,
	}))

	// utils
	fs, err := storage.New(log)
	if err != nil {
		return nil, err
	}
	mediaRoot := ""
	if utils.GetConfig("AWS_S3_BUCKET") == "" {
		mediaRoot = utils.GetConfig("MEDIA_ROOT")
	}

	ttl := time.Duration(utils.GetConfigInt("JWT_TTL_MINUTES", 60*24)) * time.Minute
	SetupRoutes(app, Dependencies{
		DB:        db,
		Storage:   fs,
		JWT:       jwt.NewJWTService(secret, ttl),
		Mailer:    mailing.NewMailer(mailing.LoadMailConfig()),
		Metrics:   metrics.New(),
		Logger:    log,
		MediaRoot: mediaRoot,
	})
	return app, nil
}

// SetupRoutes wires repositories, services and handlers onto app.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	utils.InitValidator()
	validator := utils.Validate

	// Repository
	userRepository := user.NewUserRepository(deps.DB)
	authRepository := auth.NewAuthRepository(deps.DB)
	tagRepository := tag.NewTagRepository(deps.DB)
	ingredientRepository := ingredient.NewIngredientRepository(deps.DB)
	recipeRepository := recipe.NewRecipeRepository(deps.DB)
	followRepository := follow.NewFollowRepository(deps.DB)

	// Service
	policy := user.PasswordPolicy{MinLength: utils.GetConfigInt("PASSWORD_MIN_LENGTH", 8)}
	userService := user.NewUserService(userRepository, deps.Mailer, deps.Metrics, deps.Logger, policy)
	authService := auth.NewAuthService(authRepository, userRepository, deps.JWT, deps.Logger)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, userRepository, deps.Storage, deps.Metrics, deps.Logger)
	followService := follow.NewFollowService(followRepository, userRepository, recipeRepository, deps.Storage, deps.Metrics)

	// Handler
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       handlers.NewUserHandler(userService, validator),
		AuthHandler:       handlers.NewAuthHandler(authService, validator),
		TagHandler:        handlers.NewTagHandler(tagService, validator),
		IngredientHandler: handlers.NewIngredientHandler(ingredientService, validator),
		RecipeHandler:     handlers.NewRecipeHandler(recipeService, validator),
		FollowHandler:     handlers.NewFollowHandler(followService),
		Middleware:        middleware.NewMiddleware(authService, deps.Metrics),
		JWTService:        deps.JWT,
		Metrics:           deps.Metrics,
		MediaRoot:         deps.MediaRoot,
	}
	routesConfig.Setup()
}
