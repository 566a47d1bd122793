package config

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/metrics"
	"foodgram/internal/testutil"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

type testApp struct {
	t     *testing.T
	app   *fiber.App
	db    *gorm.DB
	store *testutil.MemoryStorage
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.NewDB(t)
	store := testutil.NewMemoryStorage()
	app := NewFiber()
	SetupRoutes(app, Dependencies{
		DB:      db,
		Storage: store,
		JWT:     jwt.NewJWTService("test-secret", time.Hour),
		Mailer:  mailing.NewMailer(mailing.MailConfig{}),
		Metrics: metrics.New(),
		Logger:  logrus.New(),
	})
	return &testApp{t: t, app: app, db: db, store: store}
}

func (a *testApp) do(method, path, token string, body any) (*http.Response, []byte) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp, raw
}

func (a *testApp) json(method, path, token string, body any) (int, envelope) {
	a.t.Helper()

	resp, raw := a.do(method, path, token, body)
	var env envelope
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (a *testApp) login(email, password string) string {
	a.t.Helper()

	status, env := a.json("POST", "/api/auth/token/login/", "", domain.LoginRequest{Email: email, Password: password})
	require.Equal(a.t, fiber.StatusOK, status, env.Error)

	var res domain.LoginResponse
	require.NoError(a.t, json.Unmarshal(env.Data, &res))
	return res.AuthToken
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestApp_RegistrationAndAuth(t *testing.T) {
	a := newTestApp(t)

	register := domain.RegisterRequest{
		Email:     "anna@example.com",
		Username:  "anna",
		Password:  "correct-horse",
		FirstName: "Anna",
		LastName:  "Karenina",
	}
	status, env := a.json("POST", "/api/users/", "", register)
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	created := decode[domain.RegisterResponse](t, env)

	status, env = a.json("POST", "/api/users/", "", register)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, created.ID, decode[domain.RegisterResponse](t, env).ID)

	for _, name := range []string{"me", "ME", "mE"} {
		bad := register
		bad.Username = name
		bad.Email = "other@example.com"
		status, env = a.json("POST", "/api/users/", "", bad)
		assert.Equal(t, fiber.StatusBadRequest, status, name)
		assert.Contains(t, env.Details, "username")
	}

	status, env = a.json("POST", "/api/auth/token/login/", "", domain.LoginRequest{Email: "anna@example.com", Password: "nope"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, domain.ErrInvalidCredentials.Message, env.Error)

	token := a.login("anna@example.com", "correct-horse")

	status, _ = a.json("GET", "/api/users/me/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = a.json("GET", "/api/users/me/", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "anna", decode[domain.UserResponse](t, env).Username)

	// Bearer is accepted too
	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	status, _ = a.json("POST", "/api/users/set_password/", token, domain.SetPasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "battery-staple",
	})
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = a.json("POST", "/api/auth/token/logout/", token, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, env = a.json("GET", "/api/users/me/", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, domain.ErrTokenRevoked.Message, env.Error)

	a.login("anna@example.com", "battery-staple")
}

func TestApp_UsersAndSubscriptions(t *testing.T) {
	a := newTestApp(t)
	reader := testutil.CreateUser(t, a.db, "reader")
	author := testutil.CreateUser(t, a.db, "author")
	token := a.login("reader@example.com", "password-reader")

	status, env := a.json("GET", "/api/users/?limit=1", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	page := decode[domain.PaginatedResponse[domain.UserResponse]](t, env)
	assert.EqualValues(t, 2, page.Pagination.Total)
	assert.EqualValues(t, 2, page.Pagination.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "author", page.Items[0].Username)

	status, _ = a.json("GET", "/api/users/?page=zero", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = a.json("GET", "/api/users/"+author.ID.String()+"/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = a.json("POST", "/api/users/"+reader.ID.String()+"/subscribe/", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, domain.ErrSelfSubscribe.Message, env.Error)

	status, _ = a.json("POST", "/api/users/"+author.ID.String()+"/subscribe/", token, nil)
	assert.Equal(t, fiber.StatusCreated, status)
	status, _ = a.json("POST", "/api/users/"+author.ID.String()+"/subscribe/", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = a.json("GET", "/api/users/"+author.ID.String()+"/", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decode[domain.UserResponse](t, env).IsSubscribed)

	status, _ = a.json("GET", "/api/users/subscriptions/?recipes_limit=-1", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = a.json("GET", "/api/users/subscriptions/?recipes_limit=2", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	subs := decode[domain.PaginatedResponse[domain.SubscriptionResponse]](t, env)
	require.Len(t, subs.Items, 1)
	assert.Equal(t, "author", subs.Items[0].Username)
	assert.True(t, subs.Items[0].IsSubscribed)

	status, _ = a.json("DELETE", "/api/users/"+author.ID.String()+"/subscribe/", token, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = a.json("DELETE", "/api/users/"+author.ID.String()+"/subscribe/", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestApp_TagsAndIngredients(t *testing.T) {
	a := newTestApp(t)
	testutil.CreateUser(t, a.db, "cook")
	testutil.CreateAdmin(t, a.db, "boss")
	testutil.CreateIngredient(t, a.db, "salt", "g")
	testutil.CreateIngredient(t, a.db, "sugar", "g")
	testutil.CreateIngredient(t, a.db, "butter", "g")

	userToken := a.login("cook@example.com", "password-cook")
	adminToken := a.login("boss@example.com", "password-boss")
	newTag := domain.CreateTagRequest{Name: "Lunch", Color: "#49B64E", Slug: "lunch"}

	status, _ := a.json("POST", "/api/tags/", "", newTag)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = a.json("POST", "/api/tags/", userToken, newTag)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env := a.json("POST", "/api/tags/", adminToken, newTag)
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	tagRes := decode[domain.TagResponse](t, env)

	status, env = a.json("POST", "/api/tags/", adminToken, domain.CreateTagRequest{Name: "Odd", Color: "#123456", Slug: "odd"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Details, "color")

	status, env = a.json("GET", "/api/tags/", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]domain.TagResponse](t, env), 1)

	status, _ = a.json("GET", "/api/tags/"+tagRes.ID+"/", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env = a.json("GET", "/api/ingredients/?name=S", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	ingredients := decode[[]domain.IngredientResponse](t, env)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "salt", ingredients[0].Name)
	assert.Equal(t, "sugar", ingredients[1].Name)

	status, _ = a.json("DELETE", "/api/tags/"+tagRes.ID+"/", adminToken, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = a.json("GET", "/api/tags/"+tagRes.ID+"/", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestApp_RecipeFlow(t *testing.T) {
	a := newTestApp(t)
	testutil.CreateUser(t, a.db, "chef")
	testutil.CreateUser(t, a.db, "guest")
	breakfast := testutil.CreateTag(t, a.db, "Breakfast", "#E26C2D", "breakfast")
	egg := testutil.CreateIngredient(t, a.db, "egg", "pcs")
	milk := testutil.CreateIngredient(t, a.db, "milk", "ml")

	chef := a.login("chef@example.com", "password-chef")
	guest := a.login("guest@example.com", "password-guest")

	payload := domain.CreateRecipeRequest{
		Ingredients: []domain.RecipeIngredientRequest{{ID: egg.ID.String(), Amount: 2}, {ID: milk.ID.String(), Amount: 100}},
		Tags:        []string{breakfast.ID.String()},
		Image:       testutil.PNGDataURI,
		Name:        "Omelette",
		Text:        "Whisk and fry.",
		CookingTime: 7,
	}

	status, _ := a.json("POST", "/api/recipes/", "", payload)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	invalid := payload
	invalid.CookingTime = 0
	invalid.Ingredients = []domain.RecipeIngredientRequest{{ID: egg.ID.String(), Amount: 0}}
	status, env := a.json("POST", "/api/recipes/", chef, invalid)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Details, "cooking_time")
	assert.Contains(t, env.Details, "ingredients[0].amount")

	status, env = a.json("POST", "/api/recipes/", chef, payload)
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	created := decode[domain.RecipeResponse](t, env)
	assert.Len(t, created.Ingredients, 2)
	assert.Equal(t, "chef", created.Author.Username)
	assert.Equal(t, 1, a.store.Len())

	status, env = a.json("GET", "/api/recipes/?limit=abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = a.json("GET", "/api/recipes/?is_favorited=maybe", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = a.json("GET", "/api/recipes/?is_favorited=1", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, decode[domain.PaginatedResponse[domain.RecipeResponse]](t, env).Items)

	status, env = a.json("GET", "/api/recipes/?tags=breakfast&tags=dinner", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[domain.PaginatedResponse[domain.RecipeResponse]](t, env).Items, 1)

	status, _ = a.json("PATCH", "/api/recipes/"+created.ID+"/", guest, domain.UpdateRecipeRequest{
		Ingredients: payload.Ingredients,
		Tags:        payload.Tags,
		Name:        "Hijacked",
		Text:        "x",
		CookingTime: 1,
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = a.json("PATCH", "/api/recipes/"+created.ID+"/", chef, domain.UpdateRecipeRequest{
		Ingredients: []domain.RecipeIngredientRequest{{ID: egg.ID.String(), Amount: 3}},
		Tags:        payload.Tags,
		Name:        "Scrambled eggs",
		Text:        "Stir.",
		CookingTime: 5,
	})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	updated := decode[domain.RecipeResponse](t, env)
	assert.Equal(t, created.Image, updated.Image)
	require.Len(t, updated.Ingredients, 1)

	status, env = a.json("POST", "/api/recipes/"+created.ID+"/favorite/", guest, nil)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Scrambled eggs", decode[domain.RecipeShortResponse](t, env).Name)
	status, env = a.json("POST", "/api/recipes/"+created.ID+"/favorite/", guest, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, domain.ErrAlreadyFavorited.Message, env.Error)

	status, env = a.json("GET", "/api/recipes/"+created.ID+"/", guest, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decode[domain.RecipeResponse](t, env).IsFavorited)

	status, _ = a.json("POST", "/api/recipes/"+created.ID+"/shopping_cart/", guest, nil)
	require.Equal(t, fiber.StatusCreated, status)

	resp, body := a.do("GET", "/api/recipes/download_shopping_cart/", guest, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="shopping_cart.txt"`)
	assert.Equal(t, "egg - 3 pcs\n", string(body))

	status, _ = a.json("DELETE", "/api/recipes/"+created.ID+"/shopping_cart/", guest, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = a.json("DELETE", "/api/recipes/"+created.ID+"/shopping_cart/", guest, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = a.json("DELETE", "/api/recipes/"+created.ID+"/", guest, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = a.json("DELETE", "/api/recipes/"+created.ID+"/", chef, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = a.json("GET", "/api/recipes/"+created.ID+"/", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Zero(t, a.store.Len())
}

func TestApp_TokenOfRemovedUser(t *testing.T) {
	a := newTestApp(t)
	ghost := testutil.CreateUser(t, a.db, "ghost")
	egg := testutil.CreateIngredient(t, a.db, "egg", "pcs")
	tag := testutil.CreateTag(t, a.db, "Dinner", "#8775D2", "dinner")
	token := a.login("ghost@example.com", "password-ghost")

	require.NoError(t, a.db.Delete(&entities.User{}, "id = ?", ghost.ID).Error)

	status, env := a.json("POST", "/api/recipes/", token, domain.CreateRecipeRequest{
		Ingredients: []domain.RecipeIngredientRequest{{ID: egg.ID.String(), Amount: 1}},
		Tags:        []string{tag.ID.String()},
		Image:       testutil.PNGDataURI,
		Name:        "Boiled egg",
		Text:        "Boil.",
		CookingTime: 9,
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, domain.ErrTokenInvalid.Message, env.Error)
	assert.Zero(t, a.store.Len())
}

func TestApp_PingAndMetrics(t *testing.T) {
	a := newTestApp(t)

	resp, _ := a.do("GET", "/api/ping", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := a.do("GET", "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `foodgram_http_requests_total{method="GET",status="2xx"}`), string(body))
}
