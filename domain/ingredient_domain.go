package domain

var (
	MessageSuccessGetIngredients   = "success get ingredients"
	MessageSuccessGetIngredient    = "success get ingredient"
	MessageSuccessCreateIngredient = "ingredient created successfully"
	MessageFailedGetIngredients    = "failed to get ingredients"
	MessageFailedGetIngredient     = "failed to get ingredient"
	MessageFailedCreateIngredient  = "failed to create ingredient"
	MessageFailedDeleteIngredient  = "failed to delete ingredient"

	ErrIngredientNotFound = NotFound("ingredient not found")
	ErrIngredientExists   = Business("ingredient with this name and measurement unit already exists")
)

type (
	CreateIngredientRequest struct {
		Name            string `json:"name" validate:"required,max=200"`
		MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
	}

	IngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
)
