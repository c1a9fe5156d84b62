package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/identity"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBranchService_Create(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	svc := NewBranchService(branchRepo, zap.NewNop())

	branchRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.Branch")).Return(nil)

	response, err := svc.Create(context.Background(), CreateBranchRequest{
		Name:    "Sucursal Centro",
		Address: "Av. Camacho 1234",
		Phone:   "70012345",
	})

	require.NoError(t, err)
	assert.Equal(t, "Sucursal Centro", response.Name)
	assert.Equal(t, "Av. Camacho 1234", response.Address)
	assert.True(t, response.Active)
}

func TestBranchService_Update(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	svc := NewBranchService(branchRepo, zap.NewNop())

	branch, err := identity.NewBranch("Sucursal Centro", "Av. Camacho 1234", "70012345")
	require.NoError(t, err)

	branchRepo.On("FindByID", mock.Anything, branch.ID).Return(branch, nil)
	branchRepo.On("Save", mock.Anything, branch).Return(nil)

	response, err := svc.Update(context.Background(), branch.ID, UpdateBranchRequest{
		Name:    "Sucursal Centro",
		Address: "Av. Mariscal Santa Cruz 500",
		Phone:   "70012345",
	})

	require.NoError(t, err)
	assert.Equal(t, "Av. Mariscal Santa Cruz 500", response.Address)
}

func TestBranchService_ListActive(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	svc := NewBranchService(branchRepo, zap.NewNop())

	open, err := identity.NewBranch("Sucursal Centro", "Av. Camacho 1234", "70012345")
	require.NoError(t, err)

	branchRepo.On("FindActive", mock.Anything).Return([]identity.Branch{*open}, nil)

	responses, err := svc.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "Sucursal Centro", responses[0].Name)
}

func TestBranchService_Deactivate(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	svc := NewBranchService(branchRepo, zap.NewNop())

	branch, err := identity.NewBranch("Sucursal Sur", "Calle 21 de Calacoto", "70098765")
	require.NoError(t, err)

	branchRepo.On("FindByID", mock.Anything, branch.ID).Return(branch, nil)
	branchRepo.On("Save", mock.Anything, branch).Return(nil)

	response, err := svc.Deactivate(context.Background(), branch.ID)

	require.NoError(t, err)
	assert.False(t, response.Active)
}

func TestBranchService_GetByID_NotFound(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	svc := NewBranchService(branchRepo, zap.NewNop())

	id := uuid.New()
	branchRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
