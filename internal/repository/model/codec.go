package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/jobrank/internal/domain/job"
	"github.com/kailas-cloud/jobrank/internal/index"
	"github.com/kailas-cloud/jobrank/internal/tfidf"
)

const formatVersion = 1

var errChecksum = errors.New("checksum mismatch")

// bundle is the encoded form of a snapshot: one blob per artifact.
type bundle struct {
	Manifest   []byte
	Vectorizer []byte
	Matrix     []byte
	Corpus     []byte
}

type manifest struct {
	Version   int               `json:"version"`
	ModelID   string            `json:"model_id"`
	BuiltAt   time.Time         `json:"built_at"`
	Documents int               `json:"documents"`
	Terms     int               `json:"terms"`
	Checksums map[string]string `json:"checksums"`
}

type recordDTO struct {
	Title          string   `json:"job"`
	Company        string   `json:"company_name"`
	Location       string   `json:"location"`
	WorkType       string   `json:"work_type"`
	Applications   *int64   `json:"no_of_application"`
	Followers      *int64   `json:"linkedin_followers"`
	PostedHoursAgo *float64 `json:"posted_hours_ago"`
	Description    string   `json:"job_details"`
}

func checksum(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

func encode(snap *index.Snapshot) (bundle, error) {
	var b bundle
	var err error

	if b.Vectorizer, err = json.Marshal(snap.Vectorizer().State()); err != nil {
		return bundle{}, fmt.Errorf("encode vectorizer: %w", err)
	}
	if b.Matrix, err = json.Marshal(snap.Matrix().State()); err != nil {
		return bundle{}, fmt.Errorf("encode matrix: %w", err)
	}
	if b.Corpus, err = json.Marshal(corpusToDTO(snap.Corpus())); err != nil {
		return bundle{}, fmt.Errorf("encode corpus: %w", err)
	}

	m := manifest{
		Version:   formatVersion,
		ModelID:   snap.ID(),
		BuiltAt:   snap.BuiltAt().UTC(),
		Documents: snap.Size(),
		Terms:     snap.Vectorizer().Size(),
		Checksums: map[string]string{
			ArtifactVectorizer: checksum(b.Vectorizer),
			ArtifactMatrix:     checksum(b.Matrix),
			ArtifactCorpus:     checksum(b.Corpus),
		},
	}
	if b.Manifest, err = json.Marshal(m); err != nil {
		return bundle{}, fmt.Errorf("encode manifest: %w", err)
	}
	return b, nil
}

// decode verifies every checksum before parsing any artifact.
func decode(b bundle) (*index.Snapshot, error) {
	var m manifest
	if err := json.Unmarshal(b.Manifest, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != formatVersion {
		return nil, fmt.Errorf("unsupported model format version %d", m.Version)
	}
	for name, blob := range map[string][]byte{
		ArtifactVectorizer: b.Vectorizer,
		ArtifactMatrix:     b.Matrix,
		ArtifactCorpus:     b.Corpus,
	} {
		if want := m.Checksums[name]; want == "" || want != checksum(blob) {
			return nil, fmt.Errorf("%s: %w", name, errChecksum)
		}
	}

	var vs tfidf.State
	if err := json.Unmarshal(b.Vectorizer, &vs); err != nil {
		return nil, fmt.Errorf("decode vectorizer: %w", err)
	}
	vec, err := tfidf.FromState(vs)
	if err != nil {
		return nil, err
	}

	var ms tfidf.MatrixState
	if err := json.Unmarshal(b.Matrix, &ms); err != nil {
		return nil, fmt.Errorf("decode matrix: %w", err)
	}
	mat, err := tfidf.MatrixFromState(ms)
	if err != nil {
		return nil, err
	}

	var dtos []recordDTO
	if err := json.Unmarshal(b.Corpus, &dtos); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	snap, err := index.NewSnapshot(m.ModelID, m.BuiltAt, vec, mat, corpusFromDTO(dtos))
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func corpusToDTO(corpus []job.Record) []recordDTO {
	out := make([]recordDTO, len(corpus))
	for i := range corpus {
		f := corpus[i].Fields()
		d := recordDTO{
			Title:       f.Title,
			Company:     f.Company,
			Location:    f.Location,
			WorkType:    f.WorkType,
			Description: f.Description,
		}
		if f.Applications.Valid {
			v := f.Applications.Value
			d.Applications = &v
		}
		if f.Followers.Valid {
			v := f.Followers.Value
			d.Followers = &v
		}
		if f.PostedHoursAgo.Valid {
			v := f.PostedHoursAgo.Value
			d.PostedHoursAgo = &v
		}
		out[i] = d
	}
	return out
}

func corpusFromDTO(dtos []recordDTO) []job.Record {
	out := make([]job.Record, len(dtos))
	for i, d := range dtos {
		f := job.Fields{
			Title:       d.Title,
			Company:     d.Company,
			Location:    d.Location,
			WorkType:    d.WorkType,
			Description: d.Description,
		}
		if d.Applications != nil {
			f.Applications = job.Int(*d.Applications)
		}
		if d.Followers != nil {
			f.Followers = job.Int(*d.Followers)
		}
		if d.PostedHoursAgo != nil {
			f.PostedHoursAgo = job.Float(*d.PostedHoursAgo)
		}
		out[i] = job.New(f)
	}
	return out
}
