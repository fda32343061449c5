package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/service"
	"github.com/forkful/backend/internal/types"
)

const testUploadLimit = 1 << 20

type mockTokenValidator struct {
	userID uuid.UUID
}

func (m *mockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	return &types.TokenClaims{UserID: m.userID, Email: "test@example.com"}, nil
}

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, _ service.ChatRequest) (string, error) {
	return s.reply, s.err
}

type stubResolver struct {
	markdown string
	preview  *string
}

func (s *stubResolver) Scrape(_ context.Context, _ string) (string, error) {
	return s.markdown, nil
}

func (s *stubResolver) PreviewImage(_ context.Context, _ string) *string {
	return s.preview
}

type stubSocial struct{}

func (stubSocial) Extract(_ context.Context, _ string) (*service.SocialPost, error) {
	return &service.SocialPost{Caption: "tasty"}, nil
}

type stubPersister struct{}

func (stubPersister) PersistImage(_ context.Context, asset *service.ImageAsset, publicURL string) (*string, error) {
	if publicURL != "" {
		return &publicURL, nil
	}
	if asset == nil {
		return nil, nil
	}
	stored := "https://recipes-test.s3.amazonaws.com/recipe-images/stored.jpg"
	return &stored, nil
}

func setupExtractRouter(t *testing.T, completer service.Completer, resolver service.ContentResolver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	extractService := service.NewExtractService(completer, resolver, stubSocial{}, stubPersister{}, service.DefaultJPEGQuality)
	handler := NewExtractHandler(extractService, &mockTokenValidator{userID: uuid.New()})

	router := gin.New()
	group := router.Group("/api/v1")
	handler.RegisterRoutes(group, testUploadLimit)
	return router
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName, contentType string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+fileName+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestExtractHandler_Extract(t *testing.T) {
	fencedReply := "```json\n{\"title\":\"Shakshuka\",\"description\":\"Eggs in tomato sauce\",\"ingredients\":[\"4 eggs\"],\"steps\":[\"Poach\"],\"meal_type\":\"breakfast\",\"cuisine\":\"middle eastern\"}\n```"

	t.Run("should return a draft for a url submission", func(t *testing.T) {
		preview := "https://blog.example.com/shakshuka.jpg"
		router := setupExtractRouter(t, &stubCompleter{reply: fencedReply}, &stubResolver{markdown: "# Shakshuka", preview: &preview})

		body, contentType := multipartBody(t, map[string]string{"url": "https://blog.example.com/shakshuka"}, "", "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/extract", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer token")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var draft service.RecipeDraft
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draft))
		assert.Equal(t, "Shakshuka", draft.Title)
		require.NotNil(t, draft.ImageURL)
		assert.Equal(t, preview, *draft.ImageURL)
		require.NotNil(t, draft.ImageSourceURL)
		assert.Equal(t, "https://blog.example.com/shakshuka", *draft.ImageSourceURL)
	})

	t.Run("should reject a submission with no input", func(t *testing.T) {
		router := setupExtractRouter(t, &stubCompleter{reply: fencedReply}, &stubResolver{})

		body, contentType := multipartBody(t, nil, "", "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/extract", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer token")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "neither url nor image")
	})

	t.Run("should reject url and image together", func(t *testing.T) {
		router := setupExtractRouter(t, &stubCompleter{reply: fencedReply}, &stubResolver{markdown: "# Recipe"})

		body, contentType := multipartBody(t, map[string]string{"url": "https://blog.example.com/r"}, "image", "card.jpg", "image/jpeg", []byte("jpeg bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/extract", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer token")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "not both")
	})

	t.Run("should reject an oversized declared body up front", func(t *testing.T) {
		router := setupExtractRouter(t, &stubCompleter{reply: fencedReply}, &stubResolver{})

		body, contentType := multipartBody(t, nil, "image", "huge.jpg", "image/jpeg", []byte("tiny"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/extract", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer token")
		req.ContentLength = testUploadLimit + 1

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("should explain HEIC conversion failures", func(t *testing.T) {
		router := setupExtractRouter(t, &stubCompleter{reply: fencedReply}, &stubResolver{})

		body, contentType := multipartBody(t, nil, "image", "card.heic", "image/heic", []byte("not a heic container"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/extract", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer token")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "converting it to JPEG")
	})

	t.Run("should hide pipeline detail behind a generic failure", func(t *testing.T) {
		router := setupExtractRouter(t, &stubCompleter{err: assert.AnError}, &stubResolver{markdown: "# Recipe"})

		body, contentType := multipartBody(t, map[string]string{"url": "https://blog.example.com/r"}, "", "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/extract", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer token")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to extract recipe")
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})

	t.Run("should require authentication", func(t *testing.T) {
		router := setupExtractRouter(t, &stubCompleter{reply: fencedReply}, &stubResolver{})

		body, contentType := multipartBody(t, map[string]string{"url": "https://blog.example.com/r"}, "", "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/extract", body)
		req.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
