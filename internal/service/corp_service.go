package service

import (
	"csr-portal-go/internal/model"
	"csr-portal-go/internal/repository"
)

// CorpService 接口定义了法人主数据的业务操作。
type CorpService interface {
	// ListCorps 返回法人列表，keyword 用于下拉框的模糊联想。
	ListCorps(keyword string) ([]model.Corp, error)
	GetCorp(corCd string) (*model.Corp, error)
	CreateCorp(corp *model.Corp) error
	UpdateCorp(corp *model.Corp) error
}

type corpService struct {
	corpRepo repository.CorpRepository
}

// NewCorpService 创建一个新的 CorpService 实例。
func NewCorpService(corpRepo repository.CorpRepository) CorpService {
	return &corpService{corpRepo: corpRepo}
}

func (s *corpService) ListCorps(keyword string) ([]model.Corp, error) {
	return s.corpRepo.FindAll(keyword)
}

func (s *corpService) GetCorp(corCd string) (*model.Corp, error) {
	return s.corpRepo.FindByCd(corCd)
}

func (s *corpService) CreateCorp(corp *model.Corp) error {
	return s.corpRepo.Create(corp)
}

func (s *corpService) UpdateCorp(corp *model.Corp) error {
	existing, err := s.corpRepo.FindByCd(corp.CorCd)
	if err != nil {
		return err
	}
	existing.CorNm = corp.CorNm
	existing.NationCd = corp.NationCd
	existing.CoinCd = corp.CoinCd
	existing.Language = corp.Language
	existing.AccTitle = corp.AccTitle
	return s.corpRepo.Update(existing)
}
