package resumes

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"jobpilot-backend/internal/plans"
)

type fakeStore struct {
	saved map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string][]byte)}
}

func (f *fakeStore) Save(_ context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := fmt.Sprintf("%s/%s", userID, fileName)
	f.saved[key] = data
	return key, int64(len(data)), "application/pdf", nil
}

func (f *fakeStore) Open(_ context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := f.saved[storageKey]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fixedPlan struct {
	plan plans.Plan
}

func (p fixedPlan) PlanFor(context.Context, string) (plans.Plan, error) {
	return p.plan, nil
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF")
}

func docxBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	fmt.Fprint(w, `<?xml version="1.0"?><w:document><w:body><w:p><w:t>Jane Doe</w:t></w:p></w:body></w:document>`)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func newTestService(maxResumes int) (*Service, *fakeStore) {
	store := newFakeStore()
	svc := &Service{
		Store: store,
		Repo:  NewMemoryRepo(),
		Plans: fixedPlan{plan: plans.Plan{Tier: plans.TierStudent, MaxResumes: maxResumes, MaxSubmissionsPerDay: 3}},
	}
	return svc, store
}

func TestUploadAndCurrent(t *testing.T) {
	svc, store := newTestService(1)

	resume, err := svc.Upload(context.Background(), "u1", "resume.pdf", "application/pdf", bytes.NewReader(pdfBytes()))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if resume.ID == "" || resume.StorageKey == "" {
		t.Fatalf("incomplete resume %+v", resume)
	}
	if _, ok := store.saved[resume.StorageKey]; !ok {
		t.Fatal("bytes not persisted to store")
	}

	current, err := svc.Current(context.Background(), "u1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.ID != resume.ID {
		t.Fatalf("current %q, want %q", current.ID, resume.ID)
	}
}

func TestUploadRejectsUnsupportedFormat(t *testing.T) {
	svc, store := newTestService(1)

	_, err := svc.Upload(context.Background(), "u1", "resume.txt", "text/plain", strings.NewReader("plain text resume"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
	if len(store.saved) != 0 {
		t.Fatal("rejected upload must not reach the store")
	}
}

func TestUploadAcceptsDocxWithoutContentType(t *testing.T) {
	svc, store := newTestService(1)

	resume, err := svc.Upload(context.Background(), "u1", "resume.docx", "", bytes.NewReader(docxBytes(t)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, ok := store.saved[resume.StorageKey]; !ok {
		t.Fatal("bytes not persisted to store")
	}
}

func TestUploadAcceptsGenericContentType(t *testing.T) {
	svc, _ := newTestService(2)

	if _, err := svc.Upload(context.Background(), "u1", "resume.pdf", "application/octet-stream", bytes.NewReader(pdfBytes())); err != nil {
		t.Fatalf("pdf as octet-stream: %v", err)
	}
	if _, err := svc.Upload(context.Background(), "u1", "resume.docx", "application/zip", bytes.NewReader(docxBytes(t))); err != nil {
		t.Fatalf("docx as zip: %v", err)
	}
}

func TestUploadEnforcesPlanLimit(t *testing.T) {
	svc, _ := newTestService(1)

	if _, err := svc.Upload(context.Background(), "u1", "first.pdf", "application/pdf", bytes.NewReader(pdfBytes())); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if _, err := svc.Upload(context.Background(), "u1", "second.pdf", "application/pdf", bytes.NewReader(pdfBytes())); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("got %v, want ErrLimitReached", err)
	}
}

func TestUploadLimitIsPerUser(t *testing.T) {
	svc, _ := newTestService(1)

	if _, err := svc.Upload(context.Background(), "u1", "a.pdf", "", bytes.NewReader(pdfBytes())); err != nil {
		t.Fatalf("u1 upload: %v", err)
	}
	if _, err := svc.Upload(context.Background(), "u2", "b.pdf", "", bytes.NewReader(pdfBytes())); err != nil {
		t.Fatalf("u2 upload: %v", err)
	}
}

func TestCurrentWithoutUpload(t *testing.T) {
	svc, _ := newTestService(1)

	if _, err := svc.Current(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestUploadEmptyFile(t *testing.T) {
	svc, _ := newTestService(1)

	if _, err := svc.Upload(context.Background(), "u1", "empty.pdf", "application/pdf", bytes.NewReader(nil)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}
