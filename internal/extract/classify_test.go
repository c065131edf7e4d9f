package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebox/internal/recipe"
)

func TestClassify_Video(t *testing.T) {
	tests := []struct {
		url string
		id  string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtube.com/watch?feature=share&v=abc123", "abc123"},
		{"https://m.youtube.com/watch?v=xyz", "xyz"},
		{"HTTPS://WWW.YOUTUBE.COM/watch?v=Upper", "Upper"},
		{"https://youtu.be/abc123", "abc123"},
		{"https://youtu.be/abc123/?t=42", "abc123"},
		{"https://www.youtube.com/shorts/short1", "short1"},
		{"https://www.youtube.com/embed/emb1?autoplay=1", "emb1"},
		{"https://www.youtube.com/live/live1", "live1"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			src, err := Classify(tt.url)
			require.NoError(t, err)
			assert.Equal(t, Video, src.Kind)
			assert.Equal(t, tt.id, src.VideoID)
		})
	}
}

func TestClassify_Article(t *testing.T) {
	for _, u := range []string{
		"https://www.allrecipes.com/recipe/123/pancakes/",
		"http://example.com",
		"https://cooking.example.org/youtube-style-pancakes?v=notavideo",
	} {
		src, err := Classify(u)
		require.NoError(t, err, u)
		assert.Equal(t, Article, src.Kind, u)
		assert.Empty(t, src.VideoID, u)
	}
}

func TestClassify_Invalid(t *testing.T) {
	for _, u := range []string{
		"",
		"not a url",
		"ftp://example.com/recipe",
		"https://",
		"https://www.youtube.com/watch",
		"https://www.youtube.com/channel/UC123",
		"https://youtu.be/",
		"%zz",
	} {
		_, err := Classify(u)
		assert.ErrorIs(t, err, recipe.ErrInvalidSource, u)
	}
}
