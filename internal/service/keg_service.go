package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brewops/internal/model"
	"brewops/internal/repository"
	"brewops/internal/ws"
	"brewops/pkg/validator"

	"gorm.io/gorm"
)

type RegisterKegRequest struct {
	Code     string `json:"code" validate:"required,kegcode"`
	Location string `json:"location"`
}

type FillKegRequest struct {
	ProductID uint   `json:"productId" validate:"required"`
	Location  string `json:"location"`
}

type ReturnKegRequest struct {
	Location string `json:"location"`
}

type KegService interface {
	Register(ctx context.Context, req *RegisterKegRequest, actor string) (*model.Keg, error)
	List(ctx context.Context, status model.KegStatus) ([]model.Keg, error)
	Get(ctx context.Context, code string) (*model.Keg, error)
	// Fill moves an Empty keg to Filled with a product.
	Fill(ctx context.Context, code string, req *FillKegRequest, actor string) (*model.Keg, error)
	// Return brings a keg back from a customer as Empty.
	Return(ctx context.Context, code string, req *ReturnKegRequest, actor string) (*model.Keg, error)
	Retire(ctx context.Context, code string, actor string) (*model.Keg, error)
}

type kegService struct {
	kegs    repository.KegRepository
	catalog repository.CatalogRepository
	wsHub   *ws.Hub
}

func NewKegService(kegs repository.KegRepository, catalog repository.CatalogRepository, hub *ws.Hub) KegService {
	return &kegService{kegs: kegs, catalog: catalog, wsHub: hub}
}

func (s *kegService) Register(ctx context.Context, req *RegisterKegRequest, actor string) (*model.Keg, error) {
	req.Code = strings.TrimSpace(req.Code)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(ErrInvalidKegCodes, "%s", validator.Message(errs))
	}

	if _, err := s.kegs.FindByCode(ctx, req.Code); err == nil {
		return nil, invalid(ErrDuplicate, "keg %s already exists", req.Code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	keg := &model.Keg{
		Code:         req.Code,
		Status:       model.KegEmpty,
		Location:     strings.TrimSpace(req.Location),
		LastActivity: &now,
	}
	if err := s.kegs.Create(ctx, keg); err != nil {
		return nil, err
	}
	s.publish("registered", keg, actor)
	return keg, nil
}

func (s *kegService) List(ctx context.Context, status model.KegStatus) ([]model.Keg, error) {
	return s.kegs.FindAll(ctx, status)
}

func (s *kegService) Get(ctx context.Context, code string) (*model.Keg, error) {
	keg, err := s.kegs.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKegNotFound
	}
	return keg, err
}

func (s *kegService) Fill(ctx context.Context, code string, req *FillKegRequest, actor string) (*model.Keg, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(ErrInvalidInput, "%s", validator.Message(errs))
	}
	keg, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if keg.Status != model.KegEmpty {
		return nil, invalid(ErrInvalidKegTransition, "keg %s is %s; only Empty kegs can be filled", code, keg.Status)
	}
	product, err := s.catalog.FindProductByID(ctx, req.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	keg.Status = model.KegFilled
	keg.ProductID = &product.ID
	keg.Product = product
	keg.CustomerID = nil
	keg.OrderID = nil
	keg.LastActivity = &now
	if loc := strings.TrimSpace(req.Location); loc != "" {
		keg.Location = loc
	}
	if err := s.kegs.Update(ctx, keg); err != nil {
		return nil, err
	}
	s.publish("filled", keg, actor)
	return keg, nil
}

func (s *kegService) Return(ctx context.Context, code string, req *ReturnKegRequest, actor string) (*model.Keg, error) {
	keg, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if keg.Status != model.KegCustomer {
		return nil, invalid(ErrInvalidKegTransition, "keg %s is %s; only kegs at a customer can be returned", code, keg.Status)
	}

	now := time.Now()
	keg.Status = model.KegEmpty
	keg.ProductID = nil
	keg.Product = nil
	keg.CustomerID = nil
	keg.OrderID = nil
	keg.LastActivity = &now
	if req != nil {
		if loc := strings.TrimSpace(req.Location); loc != "" {
			keg.Location = loc
		}
	}
	if err := s.kegs.Update(ctx, keg); err != nil {
		return nil, err
	}
	s.publish("returned", keg, actor)
	return keg, nil
}

func (s *kegService) Retire(ctx context.Context, code string, actor string) (*model.Keg, error) {
	keg, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if keg.Status != model.KegEmpty && keg.Status != model.KegFilled {
		return nil, invalid(ErrInvalidKegTransition, "keg %s is %s and cannot be retired", code, keg.Status)
	}

	now := time.Now()
	keg.Status = model.KegRetired
	keg.LastActivity = &now
	if err := s.kegs.Update(ctx, keg); err != nil {
		return nil, err
	}
	s.publish("retired", keg, actor)
	return keg, nil
}

func (s *kegService) publish(action string, keg *model.Keg, actor string) {
	s.wsHub.Publish(ws.Event{
		Type:    ws.EventKegUpdate,
		Action:  action,
		Data:    keg,
		User:    actor,
		Message: fmt.Sprintf("Keg %s %s", keg.Code, action),
	})
}
