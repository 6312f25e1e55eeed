package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/services"
)

type mockCommandService struct {
	interpretFn func(userID, text string) (*services.CommandResult, error)
}

func (m *mockCommandService) Interpret(userID, text string) (*services.CommandResult, error) {
	if m.interpretFn != nil {
		return m.interpretFn(userID, text)
	}
	return commandSuccess(false), nil
}

var _ services.CommandServicer = (*mockCommandService)(nil)

func commandSuccess(created bool) *services.CommandResult {
	record := sampleRecord()
	return &services.CommandResult{
		Record:          record,
		Category:        record.Category,
		CategoryCreated: created,
		Kind:            models.KindExpense,
		Amount:          5000,
		Description:     "mercado",
		Message:         `Registro de saída de R$50.00 ("mercado") criado com sucesso!`,
	}
}

func setupCommandRouter(handler *CommandHandler) *gin.Engine {
	r := gin.New()
	r.POST("/commands", injectUserID(testUserID), handler.ExecuteCommand)
	r.POST("/hooks/command", handler.ExecuteHookCommand)
	return r
}

func TestCommandHandler_ExecuteCommand(t *testing.T) {
	t.Run("returns 201 with the success message", func(t *testing.T) {
		var gotUser, gotText string
		cmdSvc := &mockCommandService{
			interpretFn: func(userID, text string) (*services.CommandResult, error) {
				gotUser, gotText = userID, text
				return commandSuccess(true), nil
			},
		}
		audit := &mockAuditService{}
		r := setupCommandRouter(NewCommandHandler(cmdSvc, &mockUserService{}, audit))

		rec := doRequest(r, "POST", "/commands", `{"command":"Gastei 50 com mercado"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUser != testUserID || gotText != "Gastei 50 com mercado" {
			t.Errorf("unexpected call: user=%q text=%q", gotUser, gotText)
		}
		result := parseJSON(t, rec)
		if result["success"] != true {
			t.Errorf("expected success true, got %v", result["success"])
		}
		if result["message"] != `Registro de saída de R$50.00 ("mercado") criado com sucesso!` {
			t.Errorf("unexpected message %v", result["message"])
		}
		if result["record"].(map[string]interface{})["amount_display"] != "R$50.00" {
			t.Errorf("expected record in response, got %v", result["record"])
		}
		if len(audit.entries) != 2 || audit.entries[0].action != "CREATE_CATEGORY" || audit.entries[1].action != "CREATE_RECORD" {
			t.Errorf("expected category and record audit entries, got %+v", audit.entries)
		}
	})

	t.Run("audits only the record when the category existed", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupCommandRouter(NewCommandHandler(&mockCommandService{}, &mockUserService{}, audit))

		rec := doRequest(r, "POST", "/commands", `{"command":"gastei 50 com mercado"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_RECORD" {
			t.Errorf("expected a single CREATE_RECORD entry, got %+v", audit.entries)
		}
	})

	t.Run("returns 422 with the heard text", func(t *testing.T) {
		msg := `Comando não reconhecido. Eu ouvi: "olá". Tente usar frases como "Gastei 50 com..." ou "Recebi 100 de...".`
		cmdSvc := &mockCommandService{
			interpretFn: func(_, _ string) (*services.CommandResult, error) {
				return nil, apperrors.WithMessage(apperrors.ErrUnrecognizedCommand, msg)
			},
		}
		audit := &mockAuditService{}
		r := setupCommandRouter(NewCommandHandler(cmdSvc, &mockUserService{}, audit))

		rec := doRequest(r, "POST", "/commands", `{"command":"Olá"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["success"] != false || result["code"] != "UNRECOGNIZED_COMMAND" || result["message"] != msg {
			t.Errorf("unexpected body %v", result)
		}
		if len(audit.entries) != 0 {
			t.Errorf("expected no audit entries, got %d", len(audit.entries))
		}
	})

	t.Run("returns 409 on kind conflict", func(t *testing.T) {
		cmdSvc := &mockCommandService{
			interpretFn: func(_, _ string) (*services.CommandResult, error) {
				return nil, apperrors.WithMessage(apperrors.ErrCategoryKindConflict, `A categoria "Mercado" já existe como Entrada.`)
			},
		}
		r := setupCommandRouter(NewCommandHandler(cmdSvc, &mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/commands", `{"command":"gastei 5 com mercado"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if parseJSON(t, rec)["code"] != "CATEGORY_KIND_CONFLICT" {
			t.Errorf("expected CATEGORY_KIND_CONFLICT")
		}
	})

	t.Run("returns 500 with a generic message on unexpected errors", func(t *testing.T) {
		cmdSvc := &mockCommandService{
			interpretFn: func(_, _ string) (*services.CommandResult, error) {
				return nil, errors.New("disk full")
			},
		}
		r := setupCommandRouter(NewCommandHandler(cmdSvc, &mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/commands", `{"command":"gastei 5 com pão"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if parseJSON(t, rec)["code"] != "INTERNAL_ERROR" {
			t.Errorf("expected INTERNAL_ERROR")
		}
	})

	t.Run("returns 400 when command is missing", func(t *testing.T) {
		r := setupCommandRouter(NewCommandHandler(&mockCommandService{}, &mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/commands", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if parseJSON(t, rec)["success"] != false {
			t.Errorf("expected success false")
		}
	})
}

func TestCommandHandler_ExecuteHookCommand(t *testing.T) {
	t.Run("attributes the record to the user with the email", func(t *testing.T) {
		var gotEmail, gotUser string
		userSvc := &mockUserService{
			getUserByEmailFn: func(email string) (*models.User, error) {
				gotEmail = email
				return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
			},
		}
		cmdSvc := &mockCommandService{
			interpretFn: func(userID, _ string) (*services.CommandResult, error) {
				gotUser = userID
				return commandSuccess(false), nil
			},
		}
		r := setupCommandRouter(NewCommandHandler(cmdSvc, userSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/hooks/command", `{"command":"recebi 100 de salário","email":"Ana@Example.com"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotEmail != "ana@example.com" {
			t.Errorf("expected normalized email, got %q", gotEmail)
		}
		if gotUser != testUserID {
			t.Errorf("expected user %s, got %s", testUserID, gotUser)
		}
	})

	t.Run("returns 404 for an unknown email", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByEmailFn: func(_ string) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		called := false
		cmdSvc := &mockCommandService{
			interpretFn: func(_, _ string) (*services.CommandResult, error) {
				called = true
				return commandSuccess(false), nil
			},
		}
		r := setupCommandRouter(NewCommandHandler(cmdSvc, userSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/hooks/command", `{"command":"recebi 100 de salário","email":"ghost@example.com"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if called {
			t.Error("expected interpreter not to be called")
		}
	})

	t.Run("returns 400 without email", func(t *testing.T) {
		r := setupCommandRouter(NewCommandHandler(&mockCommandService{}, &mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/hooks/command", `{"command":"recebi 100 de salário"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
