package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/StartupBuilder-io/startupbuilder/internal/ai"
	"github.com/StartupBuilder-io/startupbuilder/internal/config"
	"github.com/StartupBuilder-io/startupbuilder/internal/database"
	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/StartupBuilder-io/startupbuilder/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	chatReply     string
	generateReply string
	err           error
}

func (f *fakeGenerator) Chat(_ context.Context, _ string, _ []ai.Turn, _ string, _ *ai.InlineImage) (string, error) {
	return f.chatReply, f.err
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	return f.generateReply, f.err
}

const testPlanJSON = `{
	"companyName": "Café Aurora",
	"slogan": "O melhor café do bairro",
	"targetAudience": {"description": "moradores locais", "demographics": "25-45", "painPoints": ["falta de opções"]},
	"marketingStrategy": {"approach": "local", "channels": ["instagram"], "tactics": ["degustação"]},
	"financialPlan": {"initialInvestment": "R$ 80.000", "monthlyRevenue": "R$ 25.000", "breakEven": "14 meses", "revenueStreams": ["balcão"], "mainCosts": ["aluguel"]},
	"competitiveDifferential": {"main": "torrefação própria", "points": ["grãos selecionados"]},
	"swot": {"strengths": ["localização"], "weaknesses": ["capital"], "opportunities": ["delivery"], "threats": ["redes grandes"]},
	"investorScore": {"overallScore": 7.5, "evaluation": "promissor", "recommendation": "investir", "marketPotential": 8, "feasibility": 7, "scalability": 6, "risk": 4},
	"nextSteps": ["validar ponto comercial"]
}`

func newTestAPI(t *testing.T, gen ai.Generator) *Api {
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "api_test.db")
	cfg.Database.AutoMigrate = true
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Storage.Type = "local"
	cfg.Storage.LocalDir = t.TempDir()

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	avatars, err := storage.NewAvatarStore(cfg)
	require.NoError(t, err)

	api, err := NewApi(cfg, db, gen, avatars)
	require.NoError(t, err)
	return api
}

func doJSON(t *testing.T, api *Api, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	api.Router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func registerUser(t *testing.T, api *Api, name, email string) (string, string) {
	rec := doJSON(t, api, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string)
}

// makeAdmin promotes the user in the store and logs in again so the new
// token carries the admin role.
func makeAdmin(t *testing.T, api *Api, userID, email string) string {
	require.NoError(t, api.store.UpdateUserRole(context.Background(), userID, models.RoleAdmin))
	rec := doJSON(t, api, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["token"].(string)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{})
	rec := doJSON(t, api, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "connected", body["database"])
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{})

	rec := doJSON(t, api, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "12345",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Senha deve ter pelo menos 6 caracteres", decodeBody(t, rec)["error"])

	rec = doJSON(t, api, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "123456",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "active", user["status"])
	assert.Equal(t, "free", user["active_plan"])
	_, exposed := user["password"]
	assert.False(t, exposed)

	// same email again, different case
	rec = doJSON(t, api, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Ana 2", "email": "ANA@example.com", "password": "123456",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email já cadastrado", decodeBody(t, rec)["error"])

	rec = doJSON(t, api, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "", "email": "x@example.com", "password": "123456",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{})
	_, userID := registerUser(t, api, "Bob", "bob@example.com")

	rec := doJSON(t, api, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Email ou senha incorretos", decodeBody(t, rec)["error"])

	rec = doJSON(t, api, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Email ou senha incorretos", decodeBody(t, rec)["error"])

	rec = doJSON(t, api, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "Bob@Example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["token"])

	require.NoError(t, api.store.UpdateUserStatus(context.Background(), userID, models.StatusBlocked))
	rec = doJSON(t, api, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Sua conta foi bloqueada. Entre em contato com o suporte.", decodeBody(t, rec)["error"])
}

func TestAuthGate(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{})
	token, _ := registerUser(t, api, "Ana", "ana@example.com")

	rec := doJSON(t, api, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token não fornecido", decodeBody(t, rec)["error"])

	rec = doJSON(t, api, http.MethodGet, "/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token inválido ou expirado", decodeBody(t, rec)["error"])

	rec = doJSON(t, api, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana@example.com", decodeBody(t, rec)["email"])
}

// Blocking a user must take effect on the very next request even though the
// token they already hold is still cryptographically valid.
func TestAuthGateLiveStatus(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{})
	token, userID := registerUser(t, api, "Ana", "ana@example.com")
	ctx := context.Background()

	rec := doJSON(t, api, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, api.store.UpdateUserStatus(ctx, userID, models.StatusBlocked))
	rec = doJSON(t, api, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Sua conta foi bloqueada. Entre em contato com o suporte.", decodeBody(t, rec)["error"])

	require.NoError(t, api.store.UpdateUserStatus(ctx, userID, models.StatusSuspended))
	rec = doJSON(t, api, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Sua conta está suspensa temporariamente.", decodeBody(t, rec)["error"])

	// deleted account: token valid, row gone
	require.NoError(t, api.store.DeleteUser(ctx, userID))
	rec = doJSON(t, api, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Sua conta está inativa ou bloqueada.", decodeBody(t, rec)["error"])
}

func TestPreferencesUpdate(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{})
	token, _ := registerUser(t, api, "Ana", "ana@example.com")

	rec := doJSON(t, api, http.MethodPost, "/auth/preferences", token, map[string]string{
		"preferences": "Respostas curtas e diretas",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Preferências atualizadas", decodeBody(t, rec)["message"])

	rec = doJSON(t, api, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Respostas curtas e diretas", decodeBody(t, rec)["preferences"])
}

func TestChatRoundTrip(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{chatReply: "Olá! Vamos construir sua startup."})
	token, _ := registerUser(t, api, "Ana", "ana@example.com")

	rec := doJSON(t, api, http.MethodPost, "/chat", token, map[string]string{
		"message": "Quero abrir uma cafeteria",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	chatID := body["chatId"].(string)
	require.NotEmpty(t, chatID)
	assistant := body["assistantMessage"].(map[string]any)
	assert.Equal(t, "model", assistant["role"])
	assert.Equal(t, "Olá! Vamos construir sua startup.", assistant["content"])

	rec = doJSON(t, api, http.MethodGet, "/chat/"+chatID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decodeBody(t, rec)["messages"].([]any)
	require.Len(t, messages, 2)
	first := messages[0].(map[string]any)
	second := messages[1].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "Quero abrir uma cafeteria", first["content"])
	assert.Equal(t, "model", second["role"])

	rec = doJSON(t, api, http.MethodGet, "/chat", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Quero abrir uma cafeteria", summaries[0]["title"])
}

func TestChatEmptyMessage(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{chatReply: "oi"})
	token, _ := registerUser(t, api, "Ana", "ana@example.com")

	rec := doJSON(t, api, http.MethodPost, "/chat", token, map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A mensagem ou imagem não pode estar vazia", decodeBody(t, rec)["error"])
}

func TestChatOwnership(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{chatReply: "oi"})
	tokenA, _ := registerUser(t, api, "Ana", "ana@example.com")
	tokenB, _ := registerUser(t, api, "Bob", "bob@example.com")

	rec := doJSON(t, api, http.MethodPost, "/chat", tokenA, map[string]string{"message": "primeiro"})
	require.Equal(t, http.StatusOK, rec.Code)
	chatID := decodeBody(t, rec)["chatId"].(string)

	// Another user's chat and a missing chat must be indistinguishable.
	for _, id := range []string{chatID, "00000000-0000-0000-0000-000000000000"} {
		rec = doJSON(t, api, http.MethodGet, "/chat/"+id, tokenB, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Chat não encontrado", decodeBody(t, rec)["error"])

		rec = doJSON(t, api, http.MethodPatch, "/chat/"+id, tokenB, map[string]string{"title": "meu"})
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = doJSON(t, api, http.MethodDelete, "/chat/"+id, tokenB, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	// Owner still sees it untouched.
	rec = doJSON(t, api, http.MethodGet, "/chat/"+chatID, tokenA, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatRenameAndDelete(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{chatReply: "oi"})
	token, _ := registerUser(t, api, "Ana", "ana@example.com")

	rec := doJSON(t, api, http.MethodPost, "/chat", token, map[string]string{"message": "primeiro"})
	require.Equal(t, http.StatusOK, rec.Code)
	chatID := decodeBody(t, rec)["chatId"].(string)

	rec = doJSON(t, api, http.MethodPatch, "/chat/"+chatID, token, map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, api, http.MethodPatch, "/chat/"+chatID, token, map[string]string{"title": "Cafeteria"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, api, http.MethodGet, "/chat", token, nil)
	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Cafeteria", summaries[0]["title"])

	rec = doJSON(t, api, http.MethodDelete, "/chat/"+chatID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, api, http.MethodGet, "/chat/"+chatID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// A model failure must not erase the user's turn: the chat and the user
// message stay behind so the next attempt has its context.
func TestChatModelFailureKeepsUserTurn(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream exploded")}
	api := newTestAPI(t, gen)
	token, _ := registerUser(t, api, "Ana", "ana@example.com")

	rec := doJSON(t, api, http.MethodPost, "/chat", token, map[string]string{"message": "primeiro"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Falha ao comunicar com a IA. Tente novamente em instantes.", decodeBody(t, rec)["error"])

	rec = doJSON(t, api, http.MethodGet, "/chat", token, nil)
	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)

	rec = doJSON(t, api, http.MethodGet, "/chat/"+summaries[0]["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decodeBody(t, rec)["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])

	// Retry succeeds and the failed turn is part of the history.
	gen.err = nil
	gen.chatReply = "agora sim"
	rec = doJSON(t, api, http.MethodPost, "/chat", token, map[string]any{
		"chatId": summaries[0]["id"], "message": "tentando de novo",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatModelErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", ai.ErrRateLimited, "Ops! Nossa cota de inteligência atingiu o limite por agora. Tente novamente em alguns minutos."},
		{"provider auth", ai.ErrProviderAuth, "Erro de autenticação com a IA. Verifique a chave de API."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestAPI(t, &fakeGenerator{err: fmt.Errorf("call failed: %w", tc.err)})
			token, _ := registerUser(t, api, "Ana", "ana@example.com")

			rec := doJSON(t, api, http.MethodPost, "/chat", token, map[string]string{"message": "oi"})
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tc.want, decodeBody(t, rec)["error"])
		})
	}
}

func TestPlanGenerateAndHistory(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{generateReply: testPlanJSON})
	token, _ := registerUser(t, api, "Ana", "ana@example.com")

	rec := doJSON(t, api, http.MethodPost, "/plans/generate", token, map[string]string{
		"idea": "curto",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Descreva sua ideia com pelo menos 10 caracteres", decodeBody(t, rec)["error"])

	rec = doJSON(t, api, http.MethodPost, "/plans/generate", token, map[string]string{
		"idea": "uma cafeteria de bairro com torrefação própria",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	planID := body["id"].(string)
	result := body["result"].(map[string]any)
	assert.Equal(t, "Café Aurora", result["companyName"])

	rec = doJSON(t, api, http.MethodGet, "/plans/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, planID, history[0]["id"])

	rec = doJSON(t, api, http.MethodGet, "/plans/"+planID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Someone else cannot see or export it.
	tokenB, _ := registerUser(t, api, "Bob", "bob@example.com")
	rec = doJSON(t, api, http.MethodGet, "/plans/"+planID, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, api, http.MethodGet, "/plans/"+planID+"/pdf", tokenB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlanBadModelOutput(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{generateReply: "desculpe, não consigo"})
	token, _ := registerUser(t, api, "Ana", "ana@example.com")

	rec := doJSON(t, api, http.MethodPost, "/plans/generate", token, map[string]string{
		"idea": "uma cafeteria de bairro com torrefação própria",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Erro ao processar resposta da IA. Tente novamente.", decodeBody(t, rec)["error"])

	// nothing persisted
	rec = doJSON(t, api, http.MethodGet, "/plans/history", token, nil)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Empty(t, history)
}

func TestPlanExportPDF(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{generateReply: testPlanJSON})
	token, _ := registerUser(t, api, "Ana", "ana@example.com")

	rec := doJSON(t, api, http.MethodPost, "/plans/generate", token, map[string]string{
		"idea": "uma cafeteria de bairro com torrefação própria",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	planID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, api, http.MethodGet, "/plans/"+planID+"/pdf", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "startup-plan-Café-Aurora.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestAdminGate(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{})
	token, _ := registerUser(t, api, "Ana", "ana@example.com")

	rec := doJSON(t, api, http.MethodGet, "/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Acesso negado. Apenas administradores.", decodeBody(t, rec)["error"])
}

func TestAdminUserManagement(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{})
	_, adminID := registerUser(t, api, "Admin", "admin@example.com")
	adminToken := makeAdmin(t, api, adminID, "admin@example.com")
	_, targetID := registerUser(t, api, "Alvo", "alvo@example.com")

	rec := doJSON(t, api, http.MethodGet, "/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	rec = doJSON(t, api, http.MethodPatch, "/admin/users/"+targetID+"/plan", adminToken, map[string]string{"plan": "pro"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, api, http.MethodPatch, "/admin/users/"+targetID+"/role", adminToken, map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, api, http.MethodPatch, "/admin/users/"+targetID+"/status", adminToken, map[string]string{"status": "blocked"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// unknown enum values are rejected, not defaulted
	rec = doJSON(t, api, http.MethodPatch, "/admin/users/"+targetID+"/role", adminToken, map[string]string{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, api, http.MethodPatch, "/admin/users/"+targetID+"/status", adminToken, map[string]string{"status": "banned"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, api, http.MethodPatch, "/admin/users/"+targetID+"/plan", adminToken, map[string]string{"plan": "gold"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// missing target
	rec = doJSON(t, api, http.MethodPatch, "/admin/users/00000000-0000-0000-0000-000000000000/plan", adminToken, map[string]string{"plan": "pro"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, api, http.MethodDelete, "/admin/users/"+targetID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminSelfGuards(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{})
	_, adminID := registerUser(t, api, "Admin", "admin@example.com")
	adminToken := makeAdmin(t, api, adminID, "admin@example.com")

	rec := doJSON(t, api, http.MethodPatch, "/admin/users/"+adminID+"/role", adminToken, map[string]string{"role": "user"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Você não pode remover seu próprio acesso de Admin.", decodeBody(t, rec)["error"])

	rec = doJSON(t, api, http.MethodPatch, "/admin/users/"+adminID+"/status", adminToken, map[string]string{"status": "blocked"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Você não pode bloquear ou desativar sua própria conta admin.", decodeBody(t, rec)["error"])

	rec = doJSON(t, api, http.MethodDelete, "/admin/users/"+adminID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Você não pode deletar sua própria conta admin.", decodeBody(t, rec)["error"])

	// no-op and harmless self-changes pass
	rec = doJSON(t, api, http.MethodPatch, "/admin/users/"+adminID+"/role", adminToken, map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, api, http.MethodPatch, "/admin/users/"+adminID+"/plan", adminToken, map[string]string{"plan": "pro"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileUpdate(t *testing.T) {
	api := newTestAPI(t, &fakeGenerator{})
	token, _ := registerUser(t, api, "Ana", "ana@example.com")

	doMultipart := func(name string, avatar []byte, filename string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		if name != "" {
			require.NoError(t, mw.WriteField("name", name))
		}
		if avatar != nil {
			fw, err := mw.CreateFormFile("avatar", filename)
			require.NoError(t, err)
			_, err = fw.Write(avatar)
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPut, "/profile", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		api.Router.ServeHTTP(rec, req)
		return rec
	}

	rec := doMultipart("", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Nenhum dado para atualizar", decodeBody(t, rec)["error"])

	rec = doMultipart("Ana Clara", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ana Clara", decodeBody(t, rec)["name"])

	rec = doMultipart("", []byte("fake-png-bytes"), "me.png")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	avatarURL, _ := body["avatar_url"].(string)
	assert.True(t, strings.HasPrefix(avatarURL, "/uploads/avatar_"))
	assert.True(t, strings.HasSuffix(avatarURL, ".png"))
	// name from the previous update survives
	assert.Equal(t, "Ana Clara", body["name"])
}
