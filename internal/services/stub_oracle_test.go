package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"ecoinsure/internal/models"
	"ecoinsure/internal/store"
)

// stubOracle returns fixed verdicts, or a fixed error, and counts calls.
type stubOracle struct {
	risk   models.RiskAssessment
	claim  models.ClaimVerdict
	credit models.CreditVerdict
	err    error

	riskCalls   int
	claimCalls  int
	creditCalls int
}

func (o *stubOracle) AssessCarbonRisk(ctx context.Context, companyName, industry string, records []models.CarbonRecord, supplyChain []models.SupplyChainNode) (*models.RiskAssessment, error) {
	o.riskCalls++
	if o.err != nil {
		return nil, o.err
	}
	r := o.risk
	return &r, nil
}

func (o *stubOracle) AnalyzeClaim(ctx context.Context, description, evidenceText string) (*models.ClaimVerdict, error) {
	o.claimCalls++
	if o.err != nil {
		return nil, o.err
	}
	v := o.claim
	return &v, nil
}

func (o *stubOracle) AssessGreenCredit(ctx context.Context, companyName string, amount float64, purpose string) (*models.CreditVerdict, error) {
	o.creditCalls++
	if o.err != nil {
		return nil, o.err
	}
	v := o.credit
	return &v, nil
}

// stubCache is a map-backed assessment cache. A non-nil getErr simulates a
// degraded cache.
type stubCache struct {
	entries  map[string]models.RiskAssessment
	getErr   error
	getCalls int
	setCalls int
}

func newStubCache() *stubCache {
	return &stubCache{entries: map[string]models.RiskAssessment{}}
}

func (c *stubCache) GetRiskAssessment(ctx context.Context, companyName, productID string) (*models.RiskAssessment, error) {
	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	a, ok := c.entries[companyName+"/"+productID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (c *stubCache) SetRiskAssessment(ctx context.Context, companyName, productID string, a models.RiskAssessment) error {
	c.setCalls++
	c.entries[companyName+"/"+productID] = a
	return nil
}

// stubLedger records mirrored carbon rows in memory.
type stubLedger struct {
	rows      []models.CarbonRecord
	createErr error
}

func (l *stubLedger) Create(ctx context.Context, rec *models.CarbonRecord) error {
	if l.createErr != nil {
		return l.createErr
	}
	l.rows = append(l.rows, *rec)
	return nil
}

func (l *stubLedger) GetByCompanyID(ctx context.Context, companyID string) ([]models.CarbonRecord, error) {
	out := []models.CarbonRecord{}
	for _, r := range l.rows {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l *stubLedger) Delete(ctx context.Context, id string) error {
	for i, r := range l.rows {
		if r.ID == id {
			l.rows = append(l.rows[:i], l.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// stubMirror records mirrored policies in memory.
type stubMirror struct {
	rows []models.Policy
}

func (m *stubMirror) Create(ctx context.Context, p *models.Policy) error {
	m.rows = append(m.rows, *p)
	return nil
}

func (m *stubMirror) UpdateStatus(ctx context.Context, id string, status models.PolicyStatus) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Status = status
		}
	}
	return nil
}

func (m *stubMirror) GetByCompanyName(ctx context.Context, companyName string) ([]models.Policy, error) {
	out := []models.Policy{}
	for _, p := range m.rows {
		if p.CompanyName == companyName {
			out = append(out, p)
		}
	}
	return out, nil
}

// stubEvidenceStore holds evidence objects in a map.
type stubEvidenceStore struct {
	objects map[string][]byte
}

func newStubEvidenceStore() *stubEvidenceStore {
	return &stubEvidenceStore{objects: map[string][]byte{}}
}

func (s *stubEvidenceStore) UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error {
	s.objects[bucketName+"/"+objectName] = data
	return nil
}

func (s *stubEvidenceStore) GetFile(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	data, ok := s.objects[bucketName+"/"+objectName]
	if !ok {
		return nil, fmt.Errorf("object %s/%s does not exist", bucketName, objectName)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubEvidenceStore) DeleteFile(ctx context.Context, bucketName, objectName string) error {
	delete(s.objects, bucketName+"/"+objectName)
	return nil
}

func newPolicyStore() *store.Store[models.Policy] {
	return store.New(func(p models.Policy) string { return p.ID })
}

func newClaimStore() *store.Store[models.ClaimRecord] {
	return store.New(func(c models.ClaimRecord) string { return c.ID })
}

func newLoanStore() *store.Store[models.LoanApplication] {
	return store.New(func(l models.LoanApplication) string { return l.ID })
}

func newCarbonStore() *store.Store[models.CarbonRecord] {
	return store.New(func(r models.CarbonRecord) string { return r.ID })
}
