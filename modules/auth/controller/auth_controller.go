package controller

import (
	"slot-swapper/core/controller"
	"slot-swapper/core/errors"
	"slot-swapper/core/middleware"
	"slot-swapper/modules/auth/dto"
	"slot-swapper/modules/auth/service"
	"slot-swapper/modules/auth/validator"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	AuthService service.AuthServiceInterface
	controller.BaseController
}

func NewAuthController(authService service.AuthServiceInterface) *AuthController {
	return &AuthController{
		AuthService:    authService,
		BaseController: controller.NewBaseController(),
	}
}

// Register creates an account and returns a token pair
// @Summary Sign up
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /auth/signup [post]
func (controller *AuthController) Register(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.RegisterRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateRegisterRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	registerResponse, err := controller.AuthService.Register(ctx, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.CreatedResponse(c, registerResponse, "Register success")
}

// Login
// @Summary Log in with username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} controller.ErrorResponse
// @Failure 429 {object} controller.ErrorResponse
// @Router /auth/login [post]
func (controller *AuthController) Login(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.LoginRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateLoginRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	loginResponse, err := controller.AuthService.Login(ctx, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, loginResponse, "Login success")
}

func (controller *AuthController) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.RefreshTokenRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateRefreshTokenRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	tokens, err := controller.AuthService.RefreshToken(ctx, requestData.RefreshToken)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, tokens, "Refresh token success")
}

// Logout revokes the access token used for this request
// @Summary Log out
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} controller.SuccessResponse
// @Router /auth/logout [post]
func (controller *AuthController) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	token := middleware.TokenFromContext(c)
	if token == "" {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	if err := controller.AuthService.Logout(ctx, token); err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, nil, "Logout success")
}

// GetMe
// @Summary Current user
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Router /auth/me [get]
func (controller *AuthController) GetMe(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	user, err := controller.AuthService.GetMe(c.Request().Context(), identity.ID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, user, "Get current user success")
}
