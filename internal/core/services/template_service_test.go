package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/statement_import/internal/adapters/filestore"
	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/SscSPs/statement_import/internal/core/mapping"
	"github.com/SscSPs/statement_import/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockTemplateRepository is a mock type for the TemplateRepositoryFacade interface
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindTemplateByBank(ctx context.Context, bankName string) (*domain.MappingTemplate, error) {
	args := m.Called(ctx, bankName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MappingTemplate), args.Error(1)
}

func (m *MockTemplateRepository) ListTemplates(ctx context.Context) ([]domain.MappingTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MappingTemplate), args.Error(1)
}

func (m *MockTemplateRepository) SaveTemplate(ctx context.Context, tmpl domain.MappingTemplate) error {
	args := m.Called(ctx, tmpl)
	return args.Error(0)
}

// --- Test Suite Setup ---

type TemplateServiceTestSuite struct {
	suite.Suite
	mockRepo *MockTemplateRepository
	service  *services.TemplateService
	ctx      context.Context
}

func (suite *TemplateServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTemplateRepository)
	suite.service = services.NewTemplateService(suite.mockRepo)
	suite.ctx = context.Background()
}

func storedTemplate(bank string, headers ...string) domain.MappingTemplate {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.MappingTemplate{
		BankName:          bank,
		Version:           domain.TemplateVersion,
		Created:           created,
		Updated:           created,
		HeaderFingerprint: mapping.Fingerprint(headers),
		CSVHeaders:        headers,
		Mapping:           domain.HeaderMapping{headers[0]: domain.FieldDate},
		Metadata:          map[string]any{},
	}
}

// --- Test Cases ---

func (suite *TemplateServiceTestSuite) TestSaveTemplate_New() {
	headers := []string{"Date", "Description", "Amount"}
	hm := domain.HeaderMapping{"Date": "date", "Description": "description", "Amount": "amount"}

	suite.mockRepo.On("FindTemplateByBank", suite.ctx, "acme").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveTemplate", suite.ctx, mock.MatchedBy(func(t domain.MappingTemplate) bool {
		return t.BankName == "acme" &&
			t.Version == domain.TemplateVersion &&
			t.HeaderFingerprint == mapping.Fingerprint(headers) &&
			t.Created.Equal(t.Updated) &&
			t.Metadata != nil &&
			len(t.Mapping) == 3
	})).Return(nil).Once()

	suite.True(suite.service.SaveTemplate(suite.ctx, "acme", headers, hm, nil))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TemplateServiceTestSuite) TestSaveTemplate_KeepsCreated() {
	headers := []string{"Date", "Memo", "Amount"}
	existing := storedTemplate("acme", "Date", "Details", "Amount")

	suite.mockRepo.On("FindTemplateByBank", suite.ctx, "acme").Return(&existing, nil).Once()
	suite.mockRepo.On("SaveTemplate", suite.ctx, mock.MatchedBy(func(t domain.MappingTemplate) bool {
		return t.Created.Equal(existing.Created) &&
			t.Updated.After(existing.Created) &&
			t.HeaderFingerprint == mapping.Fingerprint(headers) &&
			t.Metadata["reviewed"] == true
	})).Return(nil).Once()

	ok := suite.service.SaveTemplate(suite.ctx, "acme", headers, domain.HeaderMapping{"Date": "date"}, map[string]any{"reviewed": true})
	suite.True(ok)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TemplateServiceTestSuite) TestSaveTemplate_StoreFailure() {
	suite.mockRepo.On("FindTemplateByBank", suite.ctx, "acme").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveTemplate", suite.ctx, mock.AnythingOfType("domain.MappingTemplate")).Return(errors.New("disk full")).Once()

	suite.False(suite.service.SaveTemplate(suite.ctx, "acme", []string{"Date"}, domain.HeaderMapping{"Date": "date"}, nil))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TemplateServiceTestSuite) TestSaveTemplate_InvalidNotWritten() {
	suite.mockRepo.On("FindTemplateByBank", suite.ctx, "acme").Return(nil, apperrors.ErrNotFound).Once()

	suite.False(suite.service.SaveTemplate(suite.ctx, "acme", nil, domain.HeaderMapping{}, nil))
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTemplate", mock.Anything, mock.Anything)
}

func (suite *TemplateServiceTestSuite) TestFindMatchingTemplate_Named() {
	headers := []string{"Date", "Description", "Amount"}
	named := storedTemplate("acme", "amount", "DATE", " description ")
	other := storedTemplate("other", "Date", "Description", "Amount")

	suite.mockRepo.On("FindTemplateByBank", suite.ctx, "acme").Return(&named, nil).Once()
	suite.mockRepo.On("ListTemplates", suite.ctx).Return([]domain.MappingTemplate{other}, nil).Once()

	got := suite.service.FindMatchingTemplate(suite.ctx, headers, "acme")
	suite.Require().NotNil(got)
	suite.Equal("acme", got.BankName)
}

func (suite *TemplateServiceTestSuite) TestFindMatchingTemplate_ExactBeforeFuzzy() {
	headers := []string{"Date", "Description", "Amount", "Balance"}
	fuzzy := storedTemplate("fuzzy", "Date", "Description", "Amount", "Balance", "Category")
	exact := storedTemplate("exact", "Balance", "Amount", "Description", "Date")

	suite.mockRepo.On("ListTemplates", suite.ctx).Return([]domain.MappingTemplate{fuzzy, exact}, nil).Once()

	got := suite.service.FindMatchingTemplate(suite.ctx, headers, "")
	suite.Require().NotNil(got)
	suite.Equal("exact", got.BankName)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindTemplateByBank", mock.Anything, mock.Anything)
}

func (suite *TemplateServiceTestSuite) TestFindMatchingTemplate_Fuzzy() {
	headers := []string{"Date", "Description", "Amount", "Balance"}
	stored := storedTemplate("visa", "Date", "Description", "Amount", "Balance", "Category") // 4/5

	suite.mockRepo.On("FindTemplateByBank", suite.ctx, "unknown").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("ListTemplates", suite.ctx).Return([]domain.MappingTemplate{stored}, nil).Once()

	got := suite.service.FindMatchingTemplate(suite.ctx, headers, "unknown")
	suite.Require().NotNil(got)
	suite.Equal("visa", got.BankName)
}

func (suite *TemplateServiceTestSuite) TestFindMatchingTemplate_BelowThreshold() {
	headers := []string{"Date", "Description", "Amount"}
	stored := storedTemplate("visa", "Date", "Description", "Amount", "Balance", "Category") // 3/5

	suite.mockRepo.On("ListTemplates", suite.ctx).Return([]domain.MappingTemplate{stored}, nil).Once()

	suite.Nil(suite.service.FindMatchingTemplate(suite.ctx, headers, ""))
}

func (suite *TemplateServiceTestSuite) TestFindMatchingTemplate_StoreErrors() {
	headers := []string{"Date", "Description", "Amount"}
	named := storedTemplate("acme", "Date", "Description", "Amount")

	suite.Run("list fails, named still matches", func() {
		suite.SetupTest()
		suite.mockRepo.On("FindTemplateByBank", suite.ctx, "acme").Return(&named, nil).Once()
		suite.mockRepo.On("ListTemplates", suite.ctx).Return(nil, errors.New("connection refused")).Once()
		got := suite.service.FindMatchingTemplate(suite.ctx, headers, "acme")
		suite.Require().NotNil(got)
		suite.Equal("acme", got.BankName)
	})
	suite.Run("everything fails", func() {
		suite.SetupTest()
		suite.mockRepo.On("FindTemplateByBank", suite.ctx, "acme").Return(nil, errors.New("connection refused")).Once()
		suite.mockRepo.On("ListTemplates", suite.ctx).Return(nil, errors.New("connection refused")).Once()
		suite.Nil(suite.service.FindMatchingTemplate(suite.ctx, headers, "acme"))
	})
}

func (suite *TemplateServiceTestSuite) TestGetTemplate_NotFound() {
	suite.mockRepo.On("FindTemplateByBank", suite.ctx, "nobody").Return(nil, apperrors.ErrNotFound).Once()

	tmpl, err := suite.service.GetTemplate(suite.ctx, "nobody")
	suite.Nil(tmpl)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TemplateServiceTestSuite) TestListTemplates_Empty() {
	suite.mockRepo.On("ListTemplates", suite.ctx).Return(nil, nil).Once()

	templates, err := suite.service.ListTemplates(suite.ctx)
	suite.NoError(err)
	suite.NotNil(templates)
	suite.Empty(templates)
}

// --- Run Test Suite ---

func TestTemplateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TemplateServiceTestSuite))
}

func TestTemplateService_FileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := services.NewTemplateService(filestore.NewTemplateStore(t.TempDir()))
	headers := []string{"Posting Date", "Payee", "Amount", "Balance"}
	hm := domain.HeaderMapping{"Posting Date": "date", "Payee": "description", "Amount": "amount", "Balance": "balance"}

	require.True(t, svc.SaveTemplate(ctx, "First Bank", headers, hm, map[string]any{"auto_created": true}))

	first, err := svc.GetTemplate(ctx, "First Bank")
	require.NoError(t, err)
	assert.True(t, first.AutoCreated())
	assert.Equal(t, hm, first.Mapping)

	require.True(t, svc.SaveTemplate(ctx, "First Bank", headers, hm, map[string]any{"auto_created": false}))
	second, err := svc.GetTemplate(ctx, "First Bank")
	require.NoError(t, err)
	assert.True(t, first.Created.Equal(second.Created))
	assert.False(t, second.AutoCreated())

	reordered := []string{"balance", "AMOUNT", "payee", "posting date"}
	got := svc.FindMatchingTemplate(ctx, reordered, "")
	require.NotNil(t, got)
	assert.Equal(t, "First Bank", got.BankName)

	all, err := svc.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
