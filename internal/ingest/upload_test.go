package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimtrack/internal/model"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	claims  map[string]model.Claim
	lookups int
	failOn  string // "insert", "update", "delete"
}

func newFakeStore(existing ...model.Claim) *fakeStore {
	s := &fakeStore{claims: make(map[string]model.Claim)}
	for _, c := range existing {
		s.claims[c.ClaimID] = c
	}
	return s
}

func (s *fakeStore) FindByClaimIDs(_ context.Context, ids []string) ([]model.Claim, error) {
	s.lookups++
	var out []model.Claim
	for _, id := range ids {
		if c, ok := s.claims[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) BulkInsert(_ context.Context, claims []*model.Claim) error {
	if s.failOn == "insert" {
		return errors.New("insert boom")
	}
	for _, c := range claims {
		if _, ok := s.claims[c.ClaimID]; ok {
			return fmt.Errorf("duplicate key %s", c.ClaimID)
		}
		s.claims[c.ClaimID] = *c
	}
	return nil
}

func (s *fakeStore) BulkUpdate(_ context.Context, claims []*model.Claim) error {
	if s.failOn == "update" {
		return errors.New("update boom")
	}
	for _, c := range claims {
		if _, ok := s.claims[c.ClaimID]; !ok {
			return fmt.Errorf("update of missing key %s", c.ClaimID)
		}
		s.claims[c.ClaimID] = *c
	}
	return nil
}

func (s *fakeStore) DeleteAll(context.Context) (int64, error) {
	if s.failOn == "delete" {
		return 0, errors.New("delete boom")
	}
	n := int64(len(s.claims))
	s.claims = make(map[string]model.Claim)
	return n, nil
}

func newTestService(st Store) *Service {
	return NewService(st, zerolog.Nop(), 0)
}

func csvFile(name, content string) File {
	return File{Name: name, Data: strings.NewReader(content)}
}

func existingClaim(id string) model.Claim {
	return model.Claim{
		ClaimID:      id,
		PatientName:  model.PlaceholderText,
		Status:       model.DefaultStatus,
		Insurer:      model.PlaceholderText,
		CPTCodes:     model.PlaceholderText,
		DenialReason: model.PlaceholderText,
	}
}

func TestUpload_CreatesWithDefaults(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)

	content := "claim_id,patient_name,billed_amount,paid_amount,status,insurer_name,discharge_date,cpt_codes,denial_reason\n" +
		"30001,Jane Doe,500.00,0,Under Review,Acme,2024-01-01,99213,\n"

	res, err := svc.Upload(context.Background(), []File{csvFile("claims.csv", content)}, ModeAppend)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Created != 1 || res.Updated != 0 || res.Errors != 0 {
		t.Fatalf("result = %+v", res)
	}

	c := st.claims["30001"]
	if c.Status != model.StatusUnderReview {
		t.Errorf("status = %q", c.Status)
	}
	if c.PaidCents != 0 || c.BilledCents != 50000 {
		t.Errorf("amounts = %d/%d", c.BilledCents, c.PaidCents)
	}
	if c.DenialReason != model.PlaceholderText {
		t.Errorf("denial_reason = %q, want placeholder", c.DenialReason)
	}
	if st.lookups != 1 {
		t.Errorf("lookups = %d, want exactly one batch lookup", st.lookups)
	}
}

func TestUpload_FillOnlyIfBlankAndIdempotence(t *testing.T) {
	existing := existingClaim("30001")
	existing.Insurer = "Keep Me Insurance"
	st := newFakeStore(existing)
	svc := newTestService(st)

	content := "claim_id,patient_name,billed_amount,insurer_name\n" +
		"30001,John Smith,750.00,Other Insurer\n"

	res, err := svc.Upload(context.Background(), []File{csvFile("f.csv", content)}, ModeAppend)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Created != 0 || res.Updated != 1 {
		t.Fatalf("first pass result = %+v", res)
	}

	c := st.claims["30001"]
	if c.PatientName != "John Smith" || c.BilledCents != 75000 {
		t.Errorf("blank fields not filled: %+v", c)
	}
	if c.Insurer != "Keep Me Insurance" {
		t.Errorf("non-default insurer overwritten: %q", c.Insurer)
	}

	// Second identical upload: nothing left to fill, zero updates.
	res, err = svc.Upload(context.Background(), []File{csvFile("f.csv", content)}, ModeAppend)
	if err != nil {
		t.Fatalf("re-upload: %v", err)
	}
	if res.Created != 0 || res.Updated != 0 {
		t.Errorf("re-upload result = %+v, want no-op", res)
	}
}

func TestUpload_NoOpRowNotCountedAsUpdate(t *testing.T) {
	existing := existingClaim("30002")
	existing.PatientName = "Set Already"
	existing.BilledCents = 100
	st := newFakeStore(existing)
	svc := newTestService(st)

	content := "claim_id,patient_name,billed_amount\n30002,Someone Else,999.00\n"
	res, err := svc.Upload(context.Background(), []File{csvFile("f.csv", content)}, ModeAppend)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Updated != 0 {
		t.Errorf("updated = %d, want 0 (all fields non-default)", res.Updated)
	}
}

func TestUpload_MissingKeyCounted(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)

	content := "claim_id,id,patient_name\n,,Jane Doe\n30003,,Kept Row\n"
	res, err := svc.Upload(context.Background(), []File{csvFile("f.csv", content)}, ModeAppend)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Errors != 1 || res.Created != 1 || res.Updated != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.ErrorDetails) != 1 || res.ErrorDetails[0] != "Row 1: no claim ID found" {
		t.Errorf("details = %v", res.ErrorDetails)
	}
}

func TestUpload_ErrorDetailCap(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)

	var b strings.Builder
	b.WriteString("claim_id,patient_name\n")
	for i := 0; i < 12; i++ {
		b.WriteString(",no key here\n")
	}

	res, err := svc.Upload(context.Background(), []File{csvFile("f.csv", b.String())}, ModeAppend)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Errors != 12 {
		t.Errorf("errors = %d, want all 12 counted", res.Errors)
	}
	if len(res.ErrorDetails) != model.MaxErrorDetails {
		t.Errorf("details = %d, want cap of %d", len(res.ErrorDetails), model.MaxErrorDetails)
	}
}

func TestUpload_PipeDelimiter(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)

	content := "claim_id|patient_name|billed_amount\n30004|Jane Doe|125.50\n"
	res, err := svc.Upload(context.Background(), []File{csvFile("f.csv", content)}, ModeAppend)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Created != 1 {
		t.Fatalf("result = %+v", res)
	}
	if c := st.claims["30004"]; c.BilledCents != 12550 || c.PatientName != "Jane Doe" {
		t.Errorf("claim = %+v", c)
	}
}

func TestUpload_OverwriteMode(t *testing.T) {
	st := newFakeStore(existingClaim("1"), existingClaim("2"), existingClaim("3"))
	svc := newTestService(st)

	content := "claim_id,patient_name\n30005,Jane Doe\n"
	res, err := svc.Upload(context.Background(), []File{csvFile("f.csv", content)}, ModeOverwrite)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Deleted != 3 || res.Created != 1 || res.Updated != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(st.claims) != 1 {
		t.Errorf("store has %d claims, want only the new batch", len(st.claims))
	}
}

func TestUpload_TwoFilesMergeAgainstPendingPlan(t *testing.T) {
	existing := existingClaim("40001")
	st := newFakeStore(existing)
	svc := newTestService(st)

	// 40001 exists and is blank; 40002 is new. File 1 fills some fields,
	// file 2 touches the same keys: its values land only on fields file 1
	// left blank, and counts stay one create + one update.
	f1 := "claim_id,patient_name,billed_amount\n" +
		"40001,First Writer,100.00\n" +
		"40002,New Claim,50.00\n"
	f2 := "claim_id,patient_name,insurer_name\n" +
		"40001,Second Writer,Acme\n" +
		"40002,Other Name,Umbrella\n"

	res, err := svc.Upload(context.Background(),
		[]File{csvFile("f1.csv", f1), csvFile("f2.csv", f2)}, ModeAppend)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Created != 1 || res.Updated != 1 || res.Errors != 0 {
		t.Fatalf("result = %+v", res)
	}

	c1 := st.claims["40001"]
	if c1.PatientName != "First Writer" {
		t.Errorf("file 2 overwrote file 1's fill: %q", c1.PatientName)
	}
	if c1.Insurer != "Acme" {
		t.Errorf("file 2 should fill still-blank insurer, got %q", c1.Insurer)
	}

	c2 := st.claims["40002"]
	if c2.PatientName != "New Claim" || c2.Insurer != "Umbrella" {
		t.Errorf("pending create not enriched in order: %+v", c2)
	}
}

func TestUpload_DuplicateKeyWithinFile(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)

	// The fake store rejects duplicate inserts, so this only passes if
	// the pending plan collapses the two rows into one create.
	content := "claim_id,patient_name,insurer_name\n50001,Jane Doe,\n50001,,Acme\n"
	res, err := svc.Upload(context.Background(), []File{csvFile("f.csv", content)}, ModeAppend)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Created != 1 || res.Updated != 0 {
		t.Fatalf("result = %+v", res)
	}
	if c := st.claims["50001"]; c.PatientName != "Jane Doe" || c.Insurer != "Acme" {
		t.Errorf("claim = %+v", c)
	}
}

func TestUpload_Validation(t *testing.T) {
	st := newFakeStore(existingClaim("1"))
	svc := NewService(st, zerolog.Nop(), 16)

	cases := []struct {
		name  string
		files []File
		mode  Mode
	}{
		{"no files", nil, ModeAppend},
		{"wrong extension", []File{csvFile("claims.xlsx", "claim_id\n1\n")}, ModeAppend},
		{"oversized", []File{csvFile("big.csv", strings.Repeat("x", 64))}, ModeAppend},
		{"too many files", []File{csvFile("a.csv", ""), csvFile("b.csv", ""), csvFile("c.csv", "")}, ModeAppend},
		{"bad mode", []File{csvFile("a.csv", "claim_id\n1\n")}, Mode("merge")},
	}
	for _, c := range cases {
		_, err := svc.Upload(context.Background(), c.files, c.mode)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: err = %v, want ValidationError", c.name, err)
		}
	}

	// Validation failures must not have touched the store, even in
	// overwrite mode.
	if len(st.claims) != 1 {
		t.Errorf("store mutated by rejected upload")
	}
}

func TestUpload_BulkApplyFailureIsProcessingError(t *testing.T) {
	st := newFakeStore()
	st.failOn = "insert"
	svc := newTestService(st)

	_, err := svc.Upload(context.Background(),
		[]File{csvFile("f.csv", "claim_id\n30006\n")}, ModeAppend)
	var pe *ProcessingError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProcessingError", err)
	}
}

func TestUploadResult_Summary(t *testing.T) {
	r := &model.UploadResult{Created: 5, Updated: 2, Errors: 1}
	if got := r.Summary(); got != "Upload completed! 5 created, 2 updated, 1 errors." {
		t.Errorf("summary = %q", got)
	}
	r.Deleted = 7
	if got := r.Summary(); got != "Upload completed! 5 created, 2 updated, 7 deleted, 1 errors." {
		t.Errorf("summary with deleted = %q", got)
	}
}
