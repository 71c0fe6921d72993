package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"oreledger/internal/audit"
	"oreledger/internal/certification"
	"oreledger/internal/certification/service/mocks"
	"oreledger/internal/platform/clock"
	"oreledger/pkg/domain"
	dErrors "oreledger/pkg/domain-errors"
	"oreledger/pkg/platform/sentinel"
)

const registryOwner = domain.Identity("owner")

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	batches *mocks.MockBatchLookup
	auditor *mocks.MockAuditPublisher
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.batches = mocks.NewMockBatchLookup(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)
	s.service = NewService(s.store, s.batches, clock.NewLedger(500), s.auditor, registryOwner)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestAddCertifier() {
	s.Run("non-owner is rejected", func() {
		err := s.service.AddCertifier(s.ctx, "mallory", "carol")
		s.True(dErrors.HasCode(err, dErrors.CodeCertNotAuthorized))
	})

	s.Run("empty address is rejected", func() {
		err := s.service.AddCertifier(s.ctx, registryOwner, "")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("owner activates the address", func() {
		s.store.EXPECT().
			UpsertCertifier(gomock.Any(), certification.Certifier{Address: "carol", Active: true}).
			Return(nil)
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.service.AddCertifier(s.ctx, registryOwner, "carol"))
	})
}

func (s *ServiceSuite) TestRemoveCertifier() {
	s.Run("non-owner is rejected", func() {
		err := s.service.RemoveCertifier(s.ctx, "mallory", "carol")
		s.True(dErrors.HasCode(err, dErrors.CodeCertNotAuthorized))
	})

	s.Run("owner writes an inactive roster record", func() {
		s.store.EXPECT().
			UpsertCertifier(gomock.Any(), certification.Certifier{Address: "carol", Active: false}).
			Return(nil)
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.service.RemoveCertifier(s.ctx, registryOwner, "carol"))
	})
}

func (s *ServiceSuite) TestCertifyBatch() {
	s.Run("non-certifier is rejected before any batch lookup", func() {
		s.store.EXPECT().FindCertifier(gomock.Any(), domain.Identity("mallory")).Return(nil, sentinel.ErrNotFound)

		err := s.service.CertifyBatch(s.ctx, "mallory", "b1", nil, 1000, "")
		s.True(dErrors.HasCode(err, dErrors.CodeCertNotAuthorized))
	})

	s.Run("deactivated certifier is rejected", func() {
		s.store.EXPECT().FindCertifier(gomock.Any(), domain.Identity("carol")).
			Return(&certification.Certifier{Address: "carol", Active: false}, nil)

		err := s.service.CertifyBatch(s.ctx, "carol", "b1", nil, 1000, "")
		s.True(dErrors.HasCode(err, dErrors.CodeCertNotAuthorized))
	})

	s.Run("unknown batch is rejected", func() {
		s.store.EXPECT().FindCertifier(gomock.Any(), domain.Identity("carol")).
			Return(&certification.Certifier{Address: "carol", Active: true}, nil)
		s.batches.EXPECT().BatchExists(gomock.Any(), "ghost").Return(false, nil)

		err := s.service.CertifyBatch(s.ctx, "carol", "ghost", nil, 1000, "")
		s.True(dErrors.HasCode(err, dErrors.CodeBatchNotFound))
	})

	s.Run("active certifier issues with computed expiration", func() {
		s.store.EXPECT().FindCertifier(gomock.Any(), domain.Identity("carol")).
			Return(&certification.Certifier{Address: "carol", Active: true}, nil)
		s.batches.EXPECT().BatchExists(gomock.Any(), "b1").Return(true, nil)

		var created *certification.Certification
		s.store.EXPECT().
			CreateCertification(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *certification.Certification) error {
				created = c
				return nil
			})
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		err := s.service.CertifyBatch(s.ctx, "carol", "b1", []string{"ISO-14001"}, 1000, "clean audit")
		s.Require().NoError(err)
		s.Require().NotNil(created)
		s.EqualValues("carol", created.Certifier)
		s.EqualValues(500, created.CertificationDate)
		s.EqualValues(1500, created.ExpirationDate)
		s.Equal(certification.StatusValid, created.Status)
		s.Equal("clean audit", created.Notes)
	})

	s.Run("owner is implicitly an active certifier", func() {
		s.store.EXPECT().FindCertifier(gomock.Any(), registryOwner).Return(nil, sentinel.ErrNotFound)
		s.batches.EXPECT().BatchExists(gomock.Any(), "b2").Return(true, nil)
		s.store.EXPECT().CreateCertification(gomock.Any(), gomock.Any()).Return(nil)
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.service.CertifyBatch(s.ctx, registryOwner, "b2", nil, 1000, ""))
	})

	s.Run("existing record, revoked or not, blocks re-certification", func() {
		s.store.EXPECT().FindCertifier(gomock.Any(), domain.Identity("carol")).
			Return(&certification.Certifier{Address: "carol", Active: true}, nil)
		s.batches.EXPECT().BatchExists(gomock.Any(), "b1").Return(true, nil)
		s.store.EXPECT().CreateCertification(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		err := s.service.CertifyBatch(s.ctx, "carol", "b1", nil, 1000, "")
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyCertified))
	})
}

func (s *ServiceSuite) TestRevokeCertification() {
	existing := &certification.Certification{
		BatchID:   "b1",
		Certifier: "carol",
		Status:    certification.StatusValid,
		Notes:     "clean audit",
	}

	s.Run("no record fails CertificationNotFound", func() {
		s.store.EXPECT().FindCertification(gomock.Any(), "ghost").Return(nil, sentinel.ErrNotFound)

		err := s.service.RevokeCertification(s.ctx, "carol", "ghost", "fraud")
		s.True(dErrors.HasCode(err, dErrors.CodeCertificationNotFound))
	})

	s.Run("third parties cannot revoke", func() {
		s.store.EXPECT().FindCertification(gomock.Any(), "b1").Return(existing, nil)

		err := s.service.RevokeCertification(s.ctx, "mallory", "b1", "fraud")
		s.True(dErrors.HasCode(err, dErrors.CodeCertNotAuthorized))
	})

	s.Run("issuer revokes, prior notes ride on the audit event", func() {
		s.store.EXPECT().FindCertification(gomock.Any(), "b1").Return(existing, nil)
		s.store.EXPECT().RevokeCertification(gomock.Any(), "b1", "falsified paperwork").Return(nil)

		var emitted audit.Event
		s.auditor.EXPECT().
			Emit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e audit.Event) error {
				emitted = e
				return nil
			})

		s.Require().NoError(s.service.RevokeCertification(s.ctx, "carol", "b1", "falsified paperwork"))
		s.Equal(audit.ActionCertificationRevoked, emitted.Action)
		s.Equal("falsified paperwork", emitted.Reason)
		s.Equal("clean audit", emitted.Detail)
	})

	s.Run("registry owner may revoke another certifier's record", func() {
		s.store.EXPECT().FindCertification(gomock.Any(), "b1").Return(existing, nil)
		s.store.EXPECT().RevokeCertification(gomock.Any(), "b1", "fraud").Return(nil)
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.service.RevokeCertification(s.ctx, registryOwner, "b1", "fraud"))
	})
}

func (s *ServiceSuite) TestIsCertifier() {
	s.Run("unknown address reads false", func() {
		s.store.EXPECT().FindCertifier(gomock.Any(), domain.Identity("nobody")).Return(nil, sentinel.ErrNotFound)

		active, err := s.service.IsCertifier(s.ctx, "nobody")
		s.Require().NoError(err)
		s.False(active)
	})

	s.Run("owner reads active without a roster record", func() {
		s.store.EXPECT().FindCertifier(gomock.Any(), registryOwner).Return(nil, sentinel.ErrNotFound)

		active, err := s.service.IsCertifier(s.ctx, registryOwner)
		s.Require().NoError(err)
		s.True(active)
	})

	s.Run("an explicit inactive record overrides the owner's implicit status", func() {
		s.store.EXPECT().FindCertifier(gomock.Any(), registryOwner).
			Return(&certification.Certifier{Address: registryOwner, Active: false}, nil)

		active, err := s.service.IsCertifier(s.ctx, registryOwner)
		s.Require().NoError(err)
		s.False(active)
	})
}

func (s *ServiceSuite) TestGet() {
	s.Run("absent record is nil, not an error", func() {
		s.store.EXPECT().FindCertification(gomock.Any(), "ghost").Return(nil, sentinel.ErrNotFound)

		c, err := s.service.Get(s.ctx, "ghost")
		s.Require().NoError(err)
		s.Nil(c)
	})
}
