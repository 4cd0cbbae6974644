package video

import (
	"context"
	"errors"
	"testing"
	"time"

	"veostudio/internal/domain"
	"veostudio/internal/infra/credentials"
	"veostudio/internal/providers/genai"
)

type fakeOperationClient struct {
	startCalls    int
	statusCalls   int
	downloadCalls int

	lastStart      genai.VideoGenerationRequest
	polledNames    []string
	statusSequence []*genai.Operation
	statusErr      error

	downloadURI string
	downloadErr error
}

func (f *fakeOperationClient) StartVideoGeneration(ctx context.Context, model string, req genai.VideoGenerationRequest) (*genai.Operation, error) {
	f.startCalls++
	f.lastStart = req
	return &genai.Operation{Name: "operations/op-1"}, nil
}

func (f *fakeOperationClient) GetOperation(ctx context.Context, name string) (*genai.Operation, error) {
	f.statusCalls++
	f.polledNames = append(f.polledNames, name)
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.statusCalls <= len(f.statusSequence) {
		return f.statusSequence[f.statusCalls-1], nil
	}
	return f.statusSequence[len(f.statusSequence)-1], nil
}

func (f *fakeOperationClient) Download(ctx context.Context, uri string) (*domain.MediaBlob, error) {
	f.downloadCalls++
	f.downloadURI = uri
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return &domain.MediaBlob{MIME: "video/mp4", Data: []byte("mp4")}, nil
}

func newTestOrchestrator(t *testing.T, client OperationClient, key string, deadline time.Duration) *Orchestrator {
	t.Helper()
	o, err := New(Options{
		Client:       client,
		Keys:         credentials.StaticKey(key),
		Model:        "veo-3.1-fast-generate-preview",
		PollInterval: time.Millisecond,
		PollDeadline: deadline,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return o
}

func doneOperation(uri string) *genai.Operation {
	return &genai.Operation{
		Name: "operations/op-1",
		Done: true,
		Response: &genai.VideoOperationResponse{
			GeneratedVideos: []genai.GeneratedVideo{{Video: &genai.VideoRef{URI: uri}}},
		},
	}
}

func TestSubmitRequiresCredentialBeforeAnyCall(t *testing.T) {
	client := &fakeOperationClient{}
	o := newTestOrchestrator(t, client, "", 0)

	for _, req := range []domain.VideoRequest{
		{Mode: domain.VideoModeText, Prompt: "a drone shot"},
		{Mode: domain.VideoModeImage, Image: &domain.InlineImage{MIME: "image/png", Data: []byte{1}}},
	} {
		if _, err := o.Submit(context.Background(), req); !errors.Is(err, domain.ErrNotConfigured) {
			t.Fatalf("err = %v, want ErrNotConfigured", err)
		}
	}
	if client.startCalls != 0 || client.statusCalls != 0 || client.downloadCalls != 0 {
		t.Fatalf("client was called with no credential: %+v", client)
	}
}

func TestSubmitPinsResolutionAndAspect(t *testing.T) {
	client := &fakeOperationClient{}
	o := newTestOrchestrator(t, client, "key", 0)

	op, err := o.Submit(context.Background(), domain.VideoRequest{Mode: domain.VideoModeText, Prompt: "waves"})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if op.Name != "operations/op-1" {
		t.Fatalf("operation name = %q", op.Name)
	}
	sent := client.lastStart
	if sent.Resolution != "720p" || sent.AspectRatio != "16:9" || sent.NumberOfVideos != 1 {
		t.Fatalf("submission parameters = %+v", sent)
	}
	if sent.Image != nil {
		t.Fatal("text mode must not attach an image")
	}
}

func TestSubmitImageModeDefaultsPromptAndAttachesImage(t *testing.T) {
	client := &fakeOperationClient{}
	o := newTestOrchestrator(t, client, "key", 0)

	image := &domain.InlineImage{MIME: "image/jpeg", Data: []byte{0xff, 0xd8}}
	if _, err := o.Submit(context.Background(), domain.VideoRequest{Mode: domain.VideoModeImage, Image: image}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if client.lastStart.Image == nil || client.lastStart.Image.MIME != "image/jpeg" {
		t.Fatalf("image not attached: %+v", client.lastStart)
	}
	if client.lastStart.Prompt != defaultImagePrompt {
		t.Fatalf("Prompt = %q, want default image prompt", client.lastStart.Prompt)
	}

	if _, err := o.Submit(context.Background(), domain.VideoRequest{Mode: domain.VideoModeImage}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput without an image", err)
	}
}

func TestAwaitPollsUntilDoneReusingHandle(t *testing.T) {
	client := &fakeOperationClient{
		statusSequence: []*genai.Operation{
			{Name: "operations/op-1", Done: false},
			{Name: "operations/op-1", Done: false},
			doneOperation("https://files.example.com/video.mp4?alt=media"),
		},
	}
	o := newTestOrchestrator(t, client, "key", 0)

	op, err := o.Await(context.Background(), &genai.Operation{Name: "operations/op-1"})
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if client.statusCalls != 3 {
		t.Fatalf("status checks = %d, want exactly 3", client.statusCalls)
	}
	for i, name := range client.polledNames {
		if name != "operations/op-1" {
			t.Fatalf("poll %d used handle %q", i, name)
		}
	}

	uri, err := o.ResultURI(op)
	if err != nil {
		t.Fatalf("ResultURI returned error: %v", err)
	}
	if uri != "https://files.example.com/video.mp4?alt=media" {
		t.Fatalf("uri = %q", uri)
	}
}

func TestAwaitReturnsStructuredErrorUntouched(t *testing.T) {
	wantErr := &domain.UpstreamError{Code: 404, Status: "NOT_FOUND", Message: "Requested entity was not found."}
	client := &fakeOperationClient{
		statusSequence: []*genai.Operation{
			{Name: "operations/op-1", Done: true, Error: wantErr},
		},
	}
	o := newTestOrchestrator(t, client, "key", 0)

	_, err := o.Await(context.Background(), &genai.Operation{Name: "operations/op-1"})
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if upstream != wantErr {
		t.Fatalf("structured error was rewritten: %+v", upstream)
	}
}

func TestAwaitHonorsDeadline(t *testing.T) {
	client := &fakeOperationClient{
		statusSequence: []*genai.Operation{{Name: "operations/op-1", Done: false}},
	}
	o := newTestOrchestrator(t, client, "key", 10*time.Millisecond)

	_, err := o.Await(context.Background(), &genai.Operation{Name: "operations/op-1"})
	if !errors.Is(err, domain.ErrPollTimeout) {
		t.Fatalf("err = %v, want ErrPollTimeout", err)
	}
}

func TestAwaitStopsOnCancellation(t *testing.T) {
	client := &fakeOperationClient{
		statusSequence: []*genai.Operation{{Name: "operations/op-1", Done: false}},
	}
	o := newTestOrchestrator(t, client, "key", 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.Await(ctx, &genai.Operation{Name: "operations/op-1"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestResultURIMissingLocatorIsShapeError(t *testing.T) {
	o := newTestOrchestrator(t, &fakeOperationClient{}, "key", 0)

	cases := []*genai.Operation{
		{Name: "op", Done: true},
		{Name: "op", Done: true, Response: &genai.VideoOperationResponse{}},
		{Name: "op", Done: true, Response: &genai.VideoOperationResponse{
			GeneratedVideos: []genai.GeneratedVideo{{}},
		}},
	}
	for i, op := range cases {
		if _, err := o.ResultURI(op); !errors.Is(err, domain.ErrBadResponse) {
			t.Fatalf("case %d: err = %v, want ErrBadResponse", i, err)
		}
	}
}

func TestMaterializeWrapsDownloadFailure(t *testing.T) {
	client := &fakeOperationClient{downloadErr: &domain.UpstreamError{Code: 403, Status: "PERMISSION_DENIED"}}
	o := newTestOrchestrator(t, client, "key", 0)

	_, err := o.Materialize(context.Background(), "https://files.example.com/video.mp4")
	if !errors.Is(err, domain.ErrDownloadFailed) {
		t.Fatalf("err = %v, want ErrDownloadFailed", err)
	}
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatal("download cause should stay inspectable")
	}

	client.downloadErr = nil
	blob, err := o.Materialize(context.Background(), "https://files.example.com/video.mp4")
	if err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}
	if blob.MIME != "video/mp4" || len(blob.Data) == 0 {
		t.Fatalf("blob = %+v", blob)
	}
}
