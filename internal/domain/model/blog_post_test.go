package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "spring-2026-kickoff", Slugify("  Spring 2026 Kickoff  "))
	assert.Equal(t, "a-b-c", Slugify("a---b///c"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestCreateBlogPostRequest_Validate(t *testing.T) {
	req := CreateBlogPostRequest{Title: "First Post", Body: "Hello **there**", AuthorName: "Pat"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "first-post", req.Slug)

	req = CreateBlogPostRequest{Title: "First Post", Slug: "custom-slug", Body: "x"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "custom-slug", req.Slug)

	assert.Error(t, (&CreateBlogPostRequest{Body: "x"}).Validate())
	assert.Error(t, (&CreateBlogPostRequest{Title: "t"}).Validate())
	assert.Error(t, (&CreateBlogPostRequest{Title: "t", Body: "x", Slug: "Bad Slug"}).Validate())
	assert.Error(t, (&CreateBlogPostRequest{Title: strings.Repeat("a", 256), Body: "x"}).Validate())
}

func TestUpdateBlogPostRequest_Validate(t *testing.T) {
	assert.Error(t, (&UpdateBlogPostRequest{}).Validate())

	title := "Updated"
	require.NoError(t, (&UpdateBlogPostRequest{Title: &title}).Validate())

	empty := "  "
	assert.Error(t, (&UpdateBlogPostRequest{Title: &empty}).Validate())

	badSlug := "Not A Slug"
	assert.Error(t, (&UpdateBlogPostRequest{Slug: &badSlug}).Validate())
}
