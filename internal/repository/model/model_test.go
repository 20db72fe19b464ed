package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/jobrank/internal/db"
	"github.com/kailas-cloud/jobrank/internal/domain/job"
	"github.com/kailas-cloud/jobrank/internal/index"
	"github.com/kailas-cloud/jobrank/internal/textnorm"
)

func buildSnapshot(t *testing.T, titles ...string) *index.Snapshot {
	t.Helper()
	if len(titles) == 0 {
		titles = []string{"Data Analyst", "Software Engineer", "Data Scientist"}
	}
	descs := []string{"SQL Python analysis", "Java backend systems", "Python machine learning"}
	corpus := make([]job.Record, len(titles))
	for i, title := range titles {
		f := job.Fields{Title: title, Description: descs[i%len(descs)], Company: "Acme"}
		if i%2 == 0 {
			f.Applications = job.Int(int64(10 * (i + 1)))
			f.PostedHoursAgo = job.Float(1.5)
		}
		corpus[i] = job.New(f)
	}
	snap, err := index.NewBuilder(textnorm.New(), index.DefaultBuildOptions()).
		Build(context.Background(), corpus)
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	return snap
}

func assertSameSnapshot(t *testing.T, want, got *index.Snapshot) {
	t.Helper()
	if got == nil {
		t.Fatal("snapshot is nil")
	}
	if got.ID() != want.ID() {
		t.Errorf("id: want %s, got %s", want.ID(), got.ID())
	}
	if !got.BuiltAt().Equal(want.BuiltAt()) {
		t.Errorf("built_at: want %v, got %v", want.BuiltAt(), got.BuiltAt())
	}
	wt, gt := want.Vectorizer().Terms(), got.Vectorizer().Terms()
	if len(wt) != len(gt) {
		t.Fatalf("terms: want %v, got %v", wt, gt)
	}
	for i := range wt {
		if wt[i] != gt[i] {
			t.Errorf("term %d: want %q, got %q", i, wt[i], gt[i])
		}
	}
	if got.Matrix().NNZ() != want.Matrix().NNZ() {
		t.Errorf("nnz: want %d, got %d", want.Matrix().NNZ(), got.Matrix().NNZ())
	}
	if got.Size() != want.Size() {
		t.Fatalf("size: want %d, got %d", want.Size(), got.Size())
	}
	for i := range want.Corpus() {
		if want.Corpus()[i].Fields() != got.Corpus()[i].Fields() {
			t.Errorf("record %d: want %+v, got %+v", i, want.Corpus()[i].Fields(), got.Corpus()[i].Fields())
		}
	}
}

// --- file store ---

func TestFileStore_LoadAbsent(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	res := s.Load(context.Background())
	if res.Status != StatusAbsent {
		t.Fatalf("expected absent, got %s (%v)", res.Status, res.Err)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	snap := buildSnapshot(t)
	if err := s.Save(context.Background(), snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	res := s.Load(context.Background())
	if res.Status != StatusLoaded {
		t.Fatalf("expected loaded, got %s (%v)", res.Status, res.Err)
	}
	assertSameSnapshot(t, snap, res.Snapshot)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != currentDir {
		t.Errorf("expected only %q after save, got %v", currentDir, entries)
	}
}

func TestFileStore_SaveReplaces(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	first := buildSnapshot(t)
	second := buildSnapshot(t, "Data Analyst", "Data Engineer", "Python Developer", "Data Scientist")
	if err := s.Save(context.Background(), first); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), second); err != nil {
		t.Fatal(err)
	}

	res := s.Load(context.Background())
	if res.Status != StatusLoaded {
		t.Fatalf("expected loaded, got %s (%v)", res.Status, res.Err)
	}
	assertSameSnapshot(t, second, res.Snapshot)
}

func TestFileStore_ChecksumMismatchIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), buildSnapshot(t)); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, currentDir, ArtifactCorpus+".json")
	if err := os.WriteFile(path, []byte(`[]`), 0o600); err != nil {
		t.Fatal(err)
	}

	res := s.Load(context.Background())
	if res.Status != StatusCorrupt {
		t.Fatalf("expected corrupt, got %s", res.Status)
	}
	if !errors.Is(res.Err, errChecksum) {
		t.Errorf("expected checksum error, got %v", res.Err)
	}
	if res.Snapshot != nil {
		t.Error("corrupt result must not carry a snapshot")
	}
}

func TestFileStore_PartialTripleIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), buildSnapshot(t)); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, currentDir, ArtifactMatrix+".json")); err != nil {
		t.Fatal(err)
	}

	if res := s.Load(context.Background()); res.Status != StatusCorrupt {
		t.Fatalf("expected corrupt, got %s", res.Status)
	}
}

func TestFileStore_CanceledLoad(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if res := s.Load(ctx); res.Status != StatusIOError {
		t.Fatalf("expected io_error, got %s", res.Status)
	}
}

// --- sqlite store ---

func openSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "model.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_LoadAbsent(t *testing.T) {
	s := openSQLite(t)
	if res := s.Load(context.Background()); res.Status != StatusAbsent {
		t.Fatalf("expected absent, got %s (%v)", res.Status, res.Err)
	}
}

func TestSQLiteStore_RoundTripAndReplace(t *testing.T) {
	s := openSQLite(t)
	first := buildSnapshot(t)
	second := buildSnapshot(t, "Data Analyst", "Data Engineer", "Python Developer", "Data Scientist")

	if err := s.Save(context.Background(), first); err != nil {
		t.Fatalf("save: %v", err)
	}
	res := s.Load(context.Background())
	if res.Status != StatusLoaded {
		t.Fatalf("expected loaded, got %s (%v)", res.Status, res.Err)
	}
	assertSameSnapshot(t, first, res.Snapshot)

	if err := s.Save(context.Background(), second); err != nil {
		t.Fatalf("save: %v", err)
	}
	res = s.Load(context.Background())
	if res.Status != StatusLoaded {
		t.Fatalf("expected loaded, got %s (%v)", res.Status, res.Err)
	}
	assertSameSnapshot(t, second, res.Snapshot)
}

func TestSQLiteStore_TamperedIsCorrupt(t *testing.T) {
	s := openSQLite(t)
	if err := s.Save(context.Background(), buildSnapshot(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(`UPDATE model_artifacts SET data = ? WHERE name = ?`,
		[]byte(`{"rows":0}`), ArtifactMatrix); err != nil {
		t.Fatal(err)
	}
	if res := s.Load(context.Background()); res.Status != StatusCorrupt {
		t.Fatalf("expected corrupt, got %s", res.Status)
	}
}

// --- kv store ---

type mockKV struct {
	data    map[string][]byte
	msetErr error
	mgetErr error
	delErr  error
	msets   int
	deleted []string
}

func newMockKV() *mockKV { return &mockKV{data: map[string][]byte{}} }

func (m *mockKV) MSet(_ context.Context, pairs []db.KVPair) error {
	if m.msetErr != nil {
		return m.msetErr
	}
	m.msets++
	for _, p := range pairs {
		m.data[p.Key] = p.Value
	}
	return nil
}

func (m *mockKV) MGet(_ context.Context, keys []string) ([][]byte, error) {
	if m.mgetErr != nil {
		return nil, m.mgetErr
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = m.data[k]
	}
	return out, nil
}

func (m *mockKV) Del(_ context.Context, keys ...string) error {
	if m.delErr != nil {
		return m.delErr
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	m.deleted = append(m.deleted, keys...)
	return nil
}

func TestKVStore_RoundTrip(t *testing.T) {
	kv := newMockKV()
	s := NewKVStore(kv, "jobrank:")
	snap := buildSnapshot(t)

	if err := s.Save(context.Background(), snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if kv.msets != 1 {
		t.Errorf("expected a single MSET, got %d", kv.msets)
	}
	if _, ok := kv.data["jobrank:model:manifest"]; !ok {
		t.Errorf("manifest key not written: %v", kv.data)
	}

	res := s.Load(context.Background())
	if res.Status != StatusLoaded {
		t.Fatalf("expected loaded, got %s (%v)", res.Status, res.Err)
	}
	assertSameSnapshot(t, snap, res.Snapshot)
}

func TestKVStore_Absent(t *testing.T) {
	s := NewKVStore(newMockKV(), "jobrank:")
	if res := s.Load(context.Background()); res.Status != StatusAbsent {
		t.Fatalf("expected absent, got %s", res.Status)
	}
}

func TestKVStore_PartialIsCorrupt(t *testing.T) {
	kv := newMockKV()
	s := NewKVStore(kv, "jobrank:")
	if err := s.Save(context.Background(), buildSnapshot(t)); err != nil {
		t.Fatal(err)
	}
	delete(kv.data, "jobrank:model:vectorizer")

	if res := s.Load(context.Background()); res.Status != StatusCorrupt {
		t.Fatalf("expected corrupt, got %s", res.Status)
	}
	if len(kv.deleted) != 4 || len(kv.data) != 0 {
		t.Fatalf("corrupt set must be cleared, deleted=%v left=%v", kv.deleted, kv.data)
	}
	if res := s.Load(context.Background()); res.Status != StatusAbsent {
		t.Fatalf("expected absent after clearing, got %s", res.Status)
	}
}

func TestKVStore_CorruptClearFailureKeepsCause(t *testing.T) {
	kv := newMockKV()
	s := NewKVStore(kv, "jobrank:")
	if err := s.Save(context.Background(), buildSnapshot(t)); err != nil {
		t.Fatal(err)
	}
	kv.data["jobrank:model:matrix"] = []byte("{}")
	kv.delErr = errors.New("READONLY replica")

	res := s.Load(context.Background())
	if res.Status != StatusCorrupt {
		t.Fatalf("expected corrupt, got %s", res.Status)
	}
	if res.Err == nil || !strings.Contains(res.Err.Error(), "clear corrupt model") {
		t.Errorf("expected the clear failure in the error, got %v", res.Err)
	}
}

func TestKVStore_HealthyLoadDeletesNothing(t *testing.T) {
	kv := newMockKV()
	s := NewKVStore(kv, "jobrank:")
	if err := s.Save(context.Background(), buildSnapshot(t)); err != nil {
		t.Fatal(err)
	}
	if res := s.Load(context.Background()); res.Status != StatusLoaded {
		t.Fatalf("expected loaded, got %s", res.Status)
	}
	if len(kv.deleted) != 0 {
		t.Errorf("unexpected deletes %v", kv.deleted)
	}
}

func TestKVStore_Errors(t *testing.T) {
	kv := newMockKV()
	kv.msetErr = errors.New("connection refused")
	kv.mgetErr = errors.New("connection refused")
	s := NewKVStore(kv, "jobrank:")

	if err := s.Save(context.Background(), buildSnapshot(t)); err == nil {
		t.Error("expected save error")
	}
	res := s.Load(context.Background())
	if res.Status != StatusIOError {
		t.Fatalf("expected io_error, got %s", res.Status)
	}
	if res.Err == nil {
		t.Error("io_error must carry the cause")
	}
}

// --- memory store ---

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	if res := s.Load(context.Background()); res.Status != StatusAbsent {
		t.Fatalf("expected absent, got %s", res.Status)
	}

	snap := buildSnapshot(t)
	if err := s.Save(context.Background(), snap); err != nil {
		t.Fatal(err)
	}
	res := s.Load(context.Background())
	if res.Status != StatusLoaded || res.Snapshot != snap {
		t.Fatalf("expected the saved snapshot, got %s", res.Status)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Save(ctx, buildSnapshot(t)); err == nil {
		t.Error("expected error on canceled save")
	}
	if s.Load(context.Background()).Snapshot != snap {
		t.Error("canceled save must not replace the snapshot")
	}
}
