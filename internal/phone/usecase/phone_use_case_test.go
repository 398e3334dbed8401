package usecase

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"phonestore/internal/domain"
	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
)

// Mock implementations
type mockPhoneRepository struct {
	ListFunc              func(ctx context.Context) ([]domain.Phone, error)
	InsertFunc            func(ctx context.Context, phone *domain.Phone) error
	FindByIDForUpdateFunc func(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error)
	UpdateFunc            func(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error
	DeleteFunc            func(ctx context.Context, id string) error
}

func (m *mockPhoneRepository) List(ctx context.Context) ([]domain.Phone, error) {
	return m.ListFunc(ctx)
}

func (m *mockPhoneRepository) Insert(ctx context.Context, phone *domain.Phone) error {
	return m.InsertFunc(ctx, phone)
}

func (m *mockPhoneRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}

func (m *mockPhoneRepository) Update(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error {
	return m.UpdateFunc(ctx, tx, phone)
}

func (m *mockPhoneRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type mockTransactionManager struct {
	calls int
}

func (m *mockTransactionManager) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	m.calls++
	return fn(nil)
}

func newTestPhoneUseCase(repo PhoneRepository, txm TransactionManager) *PhoneUseCase {
	return NewPhoneUseCase(repo, txm, zap.NewNop(), 3)
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.PhoneStatus) *domain.PhoneStatus { return &s }

// Tests

func TestCreate_NormalizesMAC(t *testing.T) {
	var inserted *domain.Phone
	repo := &mockPhoneRepository{
		InsertFunc: func(ctx context.Context, phone *domain.Phone) error {
			inserted = phone
			return nil
		},
	}

	uc := newTestPhoneUseCase(repo, &mockTransactionManager{})
	phone, err := uc.Create(context.Background(), "aa-bb-cc-dd-ee-0f", " Yealink T54W ")
	require.NoError(t, err)

	assert.Same(t, inserted, phone)
	assert.Equal(t, "AA:BB:CC:DD:EE:0F", phone.MacAddress)
	assert.Equal(t, "Yealink T54W", phone.Model)
	assert.Equal(t, domain.PhoneStatusAvailable, phone.Status)
	assert.Len(t, phone.ID, 36)
}

func TestCreate_InvalidMAC(t *testing.T) {
	repo := &mockPhoneRepository{
		InsertFunc: func(ctx context.Context, phone *domain.Phone) error {
			t.Fatal("insert must not be called")
			return nil
		},
	}

	uc := newTestPhoneUseCase(repo, &mockTransactionManager{})
	_, err := uc.Create(context.Background(), "AA:BB:CC:DD:EE", "Yealink T54W")

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_MAC", ve.Code)
}

func TestCreate_MissingModel(t *testing.T) {
	uc := newTestPhoneUseCase(&mockPhoneRepository{}, &mockTransactionManager{})
	_, err := uc.Create(context.Background(), "AA:BB:CC:DD:EE:FF", "  ")

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", ve.Code)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "model", ve.Details[0].Field)
}

func TestCreate_ModelLength(t *testing.T) {
	var inserted []string
	repo := &mockPhoneRepository{
		InsertFunc: func(ctx context.Context, phone *domain.Phone) error {
			inserted = append(inserted, phone.Model)
			return nil
		},
	}
	uc := newTestPhoneUseCase(repo, &mockTransactionManager{})

	_, err := uc.Create(context.Background(), "AA:BB:CC:DD:EE:FF", strings.Repeat("x", domain.MaxPhoneModelLength+1))

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", ve.Code)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "model", ve.Details[0].Field)

	require.Empty(t, inserted)

	widest := strings.Repeat("é", domain.MaxPhoneModelLength)
	_, err = uc.Create(context.Background(), "AA:BB:CC:DD:EE:FF", widest)
	require.NoError(t, err)
	assert.Equal(t, []string{widest}, inserted)
}

func TestCreate_DuplicateMAC(t *testing.T) {
	repo := &mockPhoneRepository{
		InsertFunc: func(ctx context.Context, phone *domain.Phone) error {
			return apperrors.NewConflictError("DUPLICATE_MAC", "phone with mac address already exists")
		},
	}

	uc := newTestPhoneUseCase(repo, &mockTransactionManager{})
	_, err := uc.Create(context.Background(), "AA:BB:CC:DD:EE:FF", "Yealink T54W")

	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, "DUPLICATE_MAC", ce.Code)
}

func TestUpdate_PartialFields(t *testing.T) {
	existing := &domain.Phone{
		ID:         "phone-1",
		MacAddress: "AA:BB:CC:DD:EE:FF",
		Model:      "Yealink T54W",
		Status:     domain.PhoneStatusAvailable,
	}
	var saved *domain.Phone
	repo := &mockPhoneRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error) {
			assert.Equal(t, "phone-1", id)
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error {
			saved = phone
			return nil
		},
	}
	txm := &mockTransactionManager{}

	uc := newTestPhoneUseCase(repo, txm)
	phone, err := uc.Update(context.Background(), "phone-1", dto.PhoneUpdate{
		AssignedTo:        strPtr("Front Desk"),
		AssignedExtension: strPtr("101"),
		Status:            statusPtr(domain.PhoneStatusAssigned),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, txm.calls)
	assert.Same(t, saved, phone)
	assert.Equal(t, domain.PhoneStatusAssigned, phone.Status)
	assert.Equal(t, "Front Desk", *phone.AssignedTo)
	assert.Equal(t, "101", *phone.AssignedExtension)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", phone.MacAddress)
	assert.Equal(t, "Yealink T54W", phone.Model)
}

func TestUpdate_ReleaseUnlinksOrder(t *testing.T) {
	orderID := "order-1"
	repo := &mockPhoneRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error) {
			return &domain.Phone{ID: id, OrderID: &orderID, AssignedTo: strPtr("Front Desk"), Status: domain.PhoneStatusAssigned}, nil
		},
		UpdateFunc: func(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error { return nil },
	}

	uc := newTestPhoneUseCase(repo, &mockTransactionManager{})
	phone, err := uc.Update(context.Background(), "phone-1", dto.PhoneUpdate{
		AssignedTo: strPtr(""),
		Status:     statusPtr(domain.PhoneStatusAvailable),
	})
	require.NoError(t, err)

	assert.Nil(t, phone.OrderID)
	assert.Nil(t, phone.AssignedTo)
	assert.Equal(t, domain.PhoneStatusAvailable, phone.Status)
}

func TestUpdate_ReleaseClearsAssignee(t *testing.T) {
	orderID := "order-1"
	repo := &mockPhoneRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error) {
			return &domain.Phone{
				ID:                id,
				OrderID:           &orderID,
				AssignedTo:        strPtr("Front Desk"),
				AssignedExtension: strPtr("101"),
				Status:            domain.PhoneStatusAssigned,
			}, nil
		},
		UpdateFunc: func(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error { return nil },
	}

	uc := newTestPhoneUseCase(repo, &mockTransactionManager{})
	phone, err := uc.Update(context.Background(), "phone-1", dto.PhoneUpdate{
		Status: statusPtr(domain.PhoneStatusAvailable),
	})
	require.NoError(t, err)

	assert.Nil(t, phone.OrderID)
	assert.Nil(t, phone.AssignedTo)
	assert.Nil(t, phone.AssignedExtension)
}

func TestUpdate_ReleaseKeepsSuppliedAssignee(t *testing.T) {
	orderID := "order-1"
	repo := &mockPhoneRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error) {
			return &domain.Phone{
				ID:                id,
				OrderID:           &orderID,
				AssignedTo:        strPtr("Front Desk"),
				AssignedExtension: strPtr("101"),
				Status:            domain.PhoneStatusAssigned,
			}, nil
		},
		UpdateFunc: func(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error { return nil },
	}

	uc := newTestPhoneUseCase(repo, &mockTransactionManager{})
	phone, err := uc.Update(context.Background(), "phone-1", dto.PhoneUpdate{
		AssignedTo: strPtr("Spare Stock"),
		Status:     statusPtr(domain.PhoneStatusAvailable),
	})
	require.NoError(t, err)

	assert.Nil(t, phone.OrderID)
	require.NotNil(t, phone.AssignedTo)
	assert.Equal(t, "Spare Stock", *phone.AssignedTo)
	assert.Nil(t, phone.AssignedExtension)
}

func TestUpdate_FieldsTooLong(t *testing.T) {
	tests := []struct {
		name      string
		upd       dto.PhoneUpdate
		wantField string
	}{
		{"assigned_to", dto.PhoneUpdate{AssignedTo: strPtr(strings.Repeat("a", domain.MaxAssignedToLength+1))}, "assigned_to"},
		{"assigned_extension", dto.PhoneUpdate{AssignedExtension: strPtr(strings.Repeat("1", domain.MaxExtensionLength+1))}, "assigned_extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txm := &mockTransactionManager{}
			uc := newTestPhoneUseCase(&mockPhoneRepository{}, txm)

			_, err := uc.Update(context.Background(), "phone-1", tt.upd)

			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", ve.Code)
			require.Len(t, ve.Details, 1)
			assert.Equal(t, tt.wantField, ve.Details[0].Field)
			assert.Equal(t, 0, txm.calls)
		})
	}
}

func TestUpdate_InvalidStatus(t *testing.T) {
	uc := newTestPhoneUseCase(&mockPhoneRepository{}, &mockTransactionManager{})
	_, err := uc.Update(context.Background(), "phone-1", dto.PhoneUpdate{Status: statusPtr("retired")})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_STATUS", ve.Code)
}

func TestUpdate_ForbiddenTransition(t *testing.T) {
	repo := &mockPhoneRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error) {
			return &domain.Phone{ID: id, Status: domain.PhoneStatusAvailable}, nil
		},
		UpdateFunc: func(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error {
			t.Fatal("update must not be called")
			return nil
		},
	}

	uc := newTestPhoneUseCase(repo, &mockTransactionManager{})
	_, err := uc.Update(context.Background(), "phone-1", dto.PhoneUpdate{Status: statusPtr(domain.PhoneStatusActive)})

	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_TRANSITION", ce.Code)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockPhoneRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error) {
			return nil, apperrors.NewNotFoundError("phone with id phone-1 not found")
		},
	}

	uc := newTestPhoneUseCase(repo, &mockTransactionManager{})
	_, err := uc.Update(context.Background(), "phone-1", dto.PhoneUpdate{AssignedTo: strPtr("x")})

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestUpdate_RetriesOnDeadlock(t *testing.T) {
	calls := 0
	repo := &mockPhoneRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error) {
			calls++
			if calls == 1 {
				return nil, &mysql.MySQLError{Number: 1213}
			}
			return &domain.Phone{ID: id, Status: domain.PhoneStatusAvailable}, nil
		},
		UpdateFunc: func(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error { return nil },
	}
	txm := &mockTransactionManager{}

	uc := newTestPhoneUseCase(repo, txm)
	_, err := uc.Update(context.Background(), "phone-1", dto.PhoneUpdate{AssignedTo: strPtr("Front Desk")})
	require.NoError(t, err)
	assert.Equal(t, 2, txm.calls)
}

func TestDelete(t *testing.T) {
	deleted := ""
	repo := &mockPhoneRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	uc := newTestPhoneUseCase(repo, &mockTransactionManager{})
	require.NoError(t, uc.Delete(context.Background(), "phone-1"))
	assert.Equal(t, "phone-1", deleted)
}

func TestList_PropagatesError(t *testing.T) {
	repo := &mockPhoneRepository{
		ListFunc: func(ctx context.Context) ([]domain.Phone, error) {
			return nil, errors.New("connection refused")
		},
	}

	uc := newTestPhoneUseCase(repo, &mockTransactionManager{})
	_, err := uc.List(context.Background())
	assert.Error(t, err)
}
