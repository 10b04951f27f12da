package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tftdatascientist/drdoc/internal/apperr"
	"github.com/tftdatascientist/drdoc/internal/models"
	"github.com/tftdatascientist/drdoc/internal/sse"
	"github.com/tftdatascientist/drdoc/internal/testutil"
	"github.com/tftdatascientist/drdoc/internal/transform"
)

type recorder struct {
	mu   sync.Mutex
	gens []sse.Generation
}

func (r *recorder) PublishGeneration(g sse.Generation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens = append(r.gens, g)
}

const readme = "# Demo\n\nA small demo project for testing purposes.\n\n## Usage\n\nRun it.\n"

func newService(t *testing.T) (string, *Service, *recorder) {
	t.Helper()
	root, mat := testutil.Materializer(t)
	rec := &recorder{}
	return root, New(testutil.Pipeline(), mat, WithPublisher(rec)), rec
}

func TestDetect(t *testing.T) {
	_, s, _ := newService(t)
	d := s.Detect(context.Background(), `{"a": 1}`)
	assert.Equal(t, models.FormatJSON, d.Format)
	assert.Equal(t, 1.0, d.Confidence)
}

func TestTransform_Preview(t *testing.T) {
	root, s, rec := newService(t)

	out, err := s.Transform(context.Background(), TransformRequest{
		Content:     readme,
		Format:      "md",
		Destination: "github",
		Preview:     true,
	})
	require.NoError(t, err)
	assert.Contains(t, out.Preview, "Preview for destination: github")
	assert.Contains(t, out.Tree, "README.md")
	assert.Empty(t, out.Written)
	assert.NoDirExists(t, filepath.Join(root, "github_output"))

	require.Len(t, rec.gens, 1)
	assert.True(t, rec.gens[0].Preview)
}

func TestTransform_Generate(t *testing.T) {
	root, s, rec := newService(t)

	out, err := s.Transform(context.Background(), TransformRequest{
		Content:     readme,
		Destination: "chatgpt",
		Project:     "ctx",
	})
	require.NoError(t, err)
	assert.Equal(t, "ctx", out.Project)
	assert.Equal(t, filepath.Join(root, "ctx", "context.md"), out.Written["context.md"])
	assert.FileExists(t, filepath.Join(root, "ctx", "context.md"))
	assert.Len(t, out.Checksum, 64)

	require.Len(t, rec.gens, 1)
	assert.Equal(t, sse.Generation{Destination: "chatgpt", Project: "ctx", Files: 1}, rec.gens[0])
}

func TestTransform_DefaultProjectAndClean(t *testing.T) {
	root, s, _ := newService(t)
	ctx := context.Background()

	_, err := s.Transform(ctx, TransformRequest{Content: readme, Destination: "github"})
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(root, "github_output"))

	_, err = s.Transform(ctx, TransformRequest{Content: readme, Destination: "github", Clean: true})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "github_output", "README.md"))
}

func TestTransform_ProjectBriefAlias(t *testing.T) {
	_, s, _ := newService(t)

	out, err := s.Transform(context.Background(), TransformRequest{
		Content:     readme,
		Destination: "project_brief",
		Preview:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, transform.DestinationChatGPT, out.Result.Destination)
	assert.Equal(t, transform.ContextProjectBrief, out.Result.Metadata["context_type"])
}

func TestTransform_UnknownDestination(t *testing.T) {
	root, s, rec := newService(t)

	out, err := s.Transform(context.Background(), TransformRequest{Content: readme, Destination: "bogus"})
	require.ErrorIs(t, err, apperr.ErrUnknownDestination)
	require.NotNil(t, out)
	assert.Empty(t, out.Result.Files)
	assert.NoDirExists(t, filepath.Join(root, "bogus_output"))

	require.Len(t, rec.gens, 1)
	assert.True(t, rec.gens[0].Failed())
}

func TestTransform_UnknownDestinationKeepsRequestedName(t *testing.T) {
	_, s, _ := newService(t)

	out, err := s.Transform(context.Background(), TransformRequest{Content: readme, Destination: " GitLab ", Preview: true})
	require.ErrorIs(t, err, apperr.ErrUnknownDestination)
	assert.Equal(t, " GitLab ", out.Result.Destination)
	assert.Equal(t, []string{"unknown destination:  GitLab "}, out.Result.Errors)
}

func TestTransform_DestinationCaseInsensitive(t *testing.T) {
	_, s, _ := newService(t)

	out, err := s.Transform(context.Background(), TransformRequest{Content: readme, Destination: "GitHub", Preview: true})
	require.NoError(t, err)
	assert.Equal(t, "github", out.Result.Destination)
}

func TestTransform_EmptyContent(t *testing.T) {
	_, s, _ := newService(t)

	_, err := s.Transform(context.Background(), TransformRequest{Destination: "github"})
	assert.ErrorIs(t, err, apperr.ErrTransformFailed)
	assert.ErrorIs(t, err, apperr.ErrEmptyContent)
}

func TestDestinations(t *testing.T) {
	_, s, _ := newService(t)
	assert.Equal(t, []string{"github", "chatgpt", "project_brief"}, s.Destinations())
}

func TestFilesReadClean(t *testing.T) {
	root, s, _ := newService(t)
	ctx := context.Background()

	out, err := s.Transform(ctx, TransformRequest{Content: readme, Destination: "chatgpt", Project: "p"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "p"), out.Path)

	files, err := s.Files(ctx, "p")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "p/context.md", files[0].Path)

	data, err := s.ReadFile(ctx, "p", "context.md")
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Demo")

	require.NoError(t, s.RemoveFile(ctx, "p", "context.md"))
	_, err = s.ReadFile(ctx, "p", "context.md")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, s.Clean(ctx, "p"))
	_, err = s.Files(ctx, "p")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPreviewOnlyService(t *testing.T) {
	s := New(testutil.Pipeline(), nil)

	out, err := s.Transform(context.Background(), TransformRequest{Content: readme, Destination: "github"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Preview)

	_, err = s.Files(context.Background(), "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestResultErrorMessage(t *testing.T) {
	_, s, _ := newService(t)

	_, err := s.Transform(context.Background(), TransformRequest{Content: readme, Destination: "bogus"})
	var rerr *ResultError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "unknown destination: bogus", err.Error())
}
