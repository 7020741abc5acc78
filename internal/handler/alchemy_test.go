package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Hearthmarket_Go/internal/crafting"
	"github.com/osse101/Hearthmarket_Go/internal/domain"
)

const brewBody = `{"characterId":"c1","ingredients":[{"ingredientId":"redroot","qty":2},{"ingredientId":"spring_water","qty":1}],"heatLevel":40}`

func TestHandleBrewPotion(t *testing.T) {
	brewed := &domain.User{ID: "u1", Characters: []domain.Character{{ID: "c1"}}}
	conflict := fmt.Errorf("%w: user u1 changed", domain.ErrTransactionConflict)

	tests := []struct {
		name           string
		body           string
		userID         string
		setupMock      func(*MockCraftingService)
		expectedStatus int
		verifyBody     func(*testing.T, map[string]any)
	}{
		{
			name:   "Success",
			body:   brewBody,
			userID: "u1",
			setupMock: func(m *MockCraftingService) {
				m.On("BrewPotion", mock.Anything, "u1", mock.MatchedBy(func(req crafting.BrewRequest) bool {
					return req.CharacterID == "c1" && len(req.Ingredients) == 2 && req.HeatLevel == 40
				})).Return(brewed, nil).Once()
			},
			expectedStatus: http.StatusOK,
			verifyBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, MsgPotionBrewed, body["message"])
			},
		},
		{
			name:           "No caller identity",
			body:           brewBody,
			setupMock:      func(m *MockCraftingService) {},
			expectedStatus: http.StatusUnauthorized,
			verifyBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "unauthenticated", body["code"])
			},
		},
		{
			name:           "Malformed JSON",
			body:           `{"characterId":`,
			userID:         "u1",
			setupMock:      func(m *MockCraftingService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown field",
			body:           `{"characterId":"c1","ingredients":[{"ingredientId":"redroot","qty":1}],"heat":40}`,
			userID:         "u1",
			setupMock:      func(m *MockCraftingService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Validation failure names json fields",
			body:           `{"ingredients":[{"ingredientId":"redroot","qty":0}],"heatLevel":40}`,
			userID:         "u1",
			setupMock:      func(m *MockCraftingService) {},
			expectedStatus: http.StatusBadRequest,
			verifyBody: func(t *testing.T, body map[string]any) {
				fields, ok := body["fields"].(map[string]any)
				require.True(t, ok)
				assert.Contains(t, fields, "characterId")
				assert.Contains(t, fields, "ingredients[0].qty")
			},
		},
		{
			name:   "No recipe matches",
			body:   brewBody,
			userID: "u1",
			setupMock: func(m *MockCraftingService) {
				m.On("BrewPotion", mock.Anything, "u1", mock.Anything).Return(nil, domain.ErrRecipeNotFound).Once()
			},
			expectedStatus: http.StatusBadRequest,
			verifyBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, ErrMsgRecipeNotFoundError, body["error"])
				assert.Equal(t, "invalid_argument", body["code"])
			},
		},
		{
			name:   "Heat outside the recipe window",
			body:   brewBody,
			userID: "u1",
			setupMock: func(m *MockCraftingService) {
				m.On("BrewPotion", mock.Anything, "u1", mock.Anything).
					Return(nil, fmt.Errorf("%w: needs heat between 30 and 50", domain.ErrHeatOutOfRange)).Once()
			},
			expectedStatus: http.StatusConflict,
			verifyBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, ErrMsgHeatOutOfRangeError, body["error"])
				assert.Equal(t, "failed_precondition", body["code"])
			},
		},
		{
			name:   "Missing ingredient",
			body:   brewBody,
			userID: "u1",
			setupMock: func(m *MockCraftingService) {
				m.On("BrewPotion", mock.Anything, "u1", mock.Anything).
					Return(nil, fmt.Errorf("%w: redroot", domain.ErrInsufficientIngredient)).Once()
			},
			expectedStatus: http.StatusConflict,
			verifyBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, ErrMsgMissingIngredient, body["error"])
				assert.Nil(t, body["retryable"])
			},
		},
		{
			name:   "Conflict is retried",
			body:   brewBody,
			userID: "u1",
			setupMock: func(m *MockCraftingService) {
				m.On("BrewPotion", mock.Anything, "u1", mock.Anything).Return(nil, conflict).Once()
				m.On("BrewPotion", mock.Anything, "u1", mock.Anything).Return(brewed, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Conflict persists",
			body:   brewBody,
			userID: "u1",
			setupMock: func(m *MockCraftingService) {
				m.On("BrewPotion", mock.Anything, "u1", mock.Anything).Return(nil, conflict).Times(testPolicy.MaxAttempts)
			},
			expectedStatus: http.StatusConflict,
			verifyBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["retryable"])
				assert.Equal(t, "conflict", body["code"])
			},
		},
		{
			name:   "Store failure hides details",
			body:   brewBody,
			userID: "u1",
			setupMock: func(m *MockCraftingService) {
				m.On("BrewPotion", mock.Anything, "u1", mock.Anything).Return(nil, errors.New("pq: connection reset")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			verifyBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, ErrMsgGenericServerError, body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := &MockCraftingService{}
			tt.setupMock(mockSvc)

			rec := httptest.NewRecorder()
			HandleBrewPotion(mockSvc, testPolicy)(rec, newRequest(http.MethodPost, "/api/v1/alchemy/brew", tt.body, tt.userID, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.verifyBody != nil {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				tt.verifyBody(t, body)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestHandleGetRecipes(t *testing.T) {
	mockSvc := &MockCraftingService{}
	mockSvc.On("ListRecipes", mock.Anything).Return([]domain.Recipe{{ID: "minor_healing", ResultPotionID: "potion_minor_healing"}})

	rec := httptest.NewRecorder()
	HandleGetRecipes(mockSvc)(rec, newRequest(http.MethodGet, "/api/v1/alchemy/recipes", "", "u1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var recipes []domain.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recipes))
	require.Len(t, recipes, 1)
	assert.Equal(t, "minor_healing", recipes[0].ID)
}
