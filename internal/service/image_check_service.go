package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mangli-store/internal/constants"
	"github.com/mangli-store/internal/logger"
	"github.com/mangli-store/internal/models"
	"github.com/mangli-store/internal/repository"
)

// ImageCheckTarget 单个待校验的商品图片地址
type ImageCheckTarget struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
}

// ImageCheckResult 单个商品图片地址的校验结论
type ImageCheckResult struct {
	ID      string `json:"id"`
	IsValid bool   `json:"is_valid"`
	Reason  string `json:"reason,omitempty"`
}

// ImageCheckReport 一次全量校验的结果，写入存储供管理端轮询
type ImageCheckReport struct {
	CheckedAt time.Time          `json:"checked_at"`
	Results   []ImageCheckResult `json:"results"`
}

// ImageCheckService 商品图片地址校验。对每个地址发 HEAD 请求，
// 非 2xx 或响应不是图片即判为无效。校验结论不影响目录正确性，
// 只供管理端展示
type ImageCheckService struct {
	kv     repository.KVRepository
	client *http.Client
}

// NewImageCheckService 创建图片校验服务
func NewImageCheckService(kv repository.KVRepository) *ImageCheckService {
	return &ImageCheckService{
		kv: kv,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Check 逐个校验给定的图片地址
func (s *ImageCheckService) Check(ctx context.Context, targets []ImageCheckTarget) []ImageCheckResult {
	results := make([]ImageCheckResult, 0, len(targets))
	for _, target := range targets {
		results = append(results, s.checkOne(ctx, target))
	}
	return results
}

// CheckCatalog 全量校验商品目录并把结果写入存储
func (s *ImageCheckService) CheckCatalog(ctx context.Context, products []models.Product) (*ImageCheckReport, error) {
	targets := make([]ImageCheckTarget, 0, len(products))
	for _, p := range products {
		targets = append(targets, ImageCheckTarget{ID: p.ID, ImageURL: p.Image})
	}

	report := &ImageCheckReport{
		CheckedAt: time.Now(),
		Results:   s.Check(ctx, targets),
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Put(constants.StorageKeyImageChecks, raw); err != nil {
		return nil, err
	}
	logger.Infow("image_check_completed", "count", len(report.Results))
	return report, nil
}

// LatestReport 读取最近一次校验结果，没有则返回 (nil, nil)
func (s *ImageCheckService) LatestReport() (*ImageCheckReport, error) {
	raw, err := s.kv.Get(constants.StorageKeyImageChecks)
	if err != nil || raw == nil {
		return nil, err
	}
	var report ImageCheckReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *ImageCheckService) checkOne(ctx context.Context, target ImageCheckTarget) ImageCheckResult {
	result := ImageCheckResult{ID: target.ID}
	if strings.TrimSpace(target.ImageURL) == "" {
		result.Reason = "image URL is empty"
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.ImageURL, nil)
	if err != nil {
		result.Reason = fmt.Sprintf("invalid image URL: %v", err)
		return result
	}
	resp, err := s.client.Do(req)
	if err != nil {
		result.Reason = fmt.Sprintf("image URL is unreachable: %v", err)
		return result
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Reason = fmt.Sprintf("image URL returned an error code: %d", resp.StatusCode)
		return result
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		result.Reason = fmt.Sprintf("URL does not serve an image (content-type %s)", contentType)
		return result
	}

	result.IsValid = true
	return result
}
