package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPosts_AnonymousWithPagination(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	author, _ := ts.createUser(t, "paginator")
	for i := 0; i < 15; i++ {
		ts.createPost(t, author, fmt.Sprintf("post %d", i))
	}

	res := ts.request(t, http.MethodGet, "/api/v1/posts?limit=5&offset=5", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Count    int64     `json:"count"`
		Next     *string   `json:"next"`
		Previous *string   `json:"previous"`
		Results  []PostDTO `json:"results"`
	}
	decodeBody(t, res, &body)

	assert.Equal(t, int64(15), body.Count)
	require.NotNil(t, body.Next)
	assert.Contains(t, *body.Next, "offset=10")
	require.NotNil(t, body.Previous)
	assert.Contains(t, *body.Previous, "offset=0")
	require.Len(t, body.Results, 5)
	assert.Equal(t, "paginator", body.Results[0].Author)
}

func TestGetPosts_FirstPageHasNoPrevious(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	author, _ := ts.createUser(t, "firstpage")
	ts.createPost(t, author, "only one")

	res := ts.request(t, http.MethodGet, "/api/v1/posts", "", nil)
	var body struct {
		Count    int64   `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
	}
	decodeBody(t, res, &body)
	assert.Equal(t, int64(1), body.Count)
	assert.Nil(t, body.Next)
	assert.Nil(t, body.Previous)
}

func TestGetPost(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	author, _ := ts.createUser(t, "reader")
	group := ts.createGroup(t, "books")
	post := ts.createPost(t, author, "with group")
	require.NoError(t, ts.db.Model(post).Update("group_id", group.ID).Error)

	t.Run("anonymous read allowed", func(t *testing.T) {
		res := ts.request(t, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), "", nil)
		assert.Equal(t, http.StatusOK, res.StatusCode)

		var dto PostDTO
		decodeBody(t, res, &dto)
		assert.Equal(t, "reader", dto.Author)
		assert.Equal(t, "with group", dto.Text)
		require.NotNil(t, dto.Group)
		assert.Equal(t, group.ID, *dto.Group)
	})

	t.Run("unknown id", func(t *testing.T) {
		res := ts.request(t, http.MethodGet, "/api/v1/posts/99999", "", nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		_ = res.Body.Close()
	})

	t.Run("non-numeric id", func(t *testing.T) {
		res := ts.request(t, http.MethodGet, "/api/v1/posts/abc", "", nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		_ = res.Body.Close()
	})
}

func TestCreatePost(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	_, token := ts.createUser(t, "creator")

	t.Run("anonymous rejected", func(t *testing.T) {
		res := ts.request(t, http.MethodPost, "/api/v1/posts", "", map[string]string{"text": "hi"})
		assertUnauthenticatedBody(t, res)
	})

	t.Run("missing text", func(t *testing.T) {
		res := ts.request(t, http.MethodPost, "/api/v1/posts", token, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		var body map[string][]string
		decodeBody(t, res, &body)
		assert.Equal(t, []string{"Required field."}, body["text"])
	})

	t.Run("blank text", func(t *testing.T) {
		res := ts.request(t, http.MethodPost, "/api/v1/posts", token, map[string]string{"text": "   "})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		_ = res.Body.Close()
	})

	t.Run("unknown group", func(t *testing.T) {
		res := ts.request(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
			"text":  "hello",
			"group": 4242,
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		var body map[string][]string
		decodeBody(t, res, &body)
		assert.Equal(t, []string{"Group does not exist."}, body["group"])
	})

	t.Run("success with group", func(t *testing.T) {
		group := ts.createGroup(t, "travel")
		res := ts.request(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
			"text":  "off we go",
			"group": group.ID,
		})
		assert.Equal(t, http.StatusCreated, res.StatusCode)

		var dto PostDTO
		decodeBody(t, res, &dto)
		assert.NotZero(t, dto.ID)
		assert.Equal(t, "creator", dto.Author)
		assert.Equal(t, "off we go", dto.Text)
		require.NotNil(t, dto.Group)
		assert.Equal(t, group.ID, *dto.Group)
		assert.False(t, dto.PubDate.IsZero())
	})
}

func TestUpdatePost_Ownership(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	owner, ownerToken := ts.createUser(t, "powner")
	_, otherToken := ts.createUser(t, "pstranger")
	post := ts.createPost(t, owner, "original")

	t.Run("non-owner gets forbidden", func(t *testing.T) {
		res := ts.request(t, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", post.ID),
			otherToken, map[string]string{"text": "hijack"})
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
		_ = res.Body.Close()
	})

	t.Run("unknown post is 404 even for non-owner", func(t *testing.T) {
		res := ts.request(t, http.MethodPut, "/api/v1/posts/99999",
			otherToken, map[string]string{"text": "hijack"})
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		_ = res.Body.Close()
	})

	t.Run("anonymous gets 401 before 404", func(t *testing.T) {
		res := ts.request(t, http.MethodPut, "/api/v1/posts/99999",
			"", map[string]string{"text": "hijack"})
		assertUnauthenticatedBody(t, res)
	})

	t.Run("owner updates text", func(t *testing.T) {
		res := ts.request(t, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", post.ID),
			ownerToken, map[string]string{"text": "revised"})
		assert.Equal(t, http.StatusOK, res.StatusCode)
		var dto PostDTO
		decodeBody(t, res, &dto)
		assert.Equal(t, "revised", dto.Text)
		assert.Equal(t, "powner", dto.Author)
	})

	t.Run("patch without text keeps current value", func(t *testing.T) {
		group := ts.createGroup(t, "patchgroup")
		res := ts.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/posts/%d", post.ID),
			ownerToken, map[string]any{"group": group.ID})
		assert.Equal(t, http.StatusOK, res.StatusCode)
		var dto PostDTO
		decodeBody(t, res, &dto)
		assert.Equal(t, "revised", dto.Text)
		require.NotNil(t, dto.Group)
		assert.Equal(t, group.ID, *dto.Group)
	})
}

func TestDeletePost(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	owner, ownerToken := ts.createUser(t, "downer")
	_, otherToken := ts.createUser(t, "dstranger")
	post := ts.createPost(t, owner, "doomed")

	t.Run("non-owner forbidden", func(t *testing.T) {
		res := ts.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", post.ID), otherToken, nil)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
		_ = res.Body.Close()
	})

	t.Run("owner deletes", func(t *testing.T) {
		res := ts.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", post.ID), ownerToken, nil)
		assert.Equal(t, http.StatusNoContent, res.StatusCode)
		_ = res.Body.Close()

		getRes := ts.request(t, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), "", nil)
		assert.Equal(t, http.StatusNotFound, getRes.StatusCode)
		_ = getRes.Body.Close()
	})
}
