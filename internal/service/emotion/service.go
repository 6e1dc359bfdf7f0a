package emotion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	analysis "github.com/zhouzirui/mindful-journal/backend/internal/analysis/emotion"
	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/chat"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/ai"
)

// ErrNoJSON 表示模型输出中没有 JSON 对象。
var ErrNoJSON = errors.New("classifier output contains no json object")

const (
	defaultConfidence = 5
	maxConfidence     = 10

	noEmotionExplanation = "No clear emotion detected"
	errorExplanation     = "Error in emotion detection"
)

// Classifier 将一段文本归类到固定情绪词表。
type Classifier interface {
	Classify(ctx context.Context, text string) (chat.Detection, error)
}

// Service 使用大模型对文本情绪进行分类，未配置模型时回退到关键词规则。
type Service struct {
	generator ai.Generator
	fallback  func(text string) analysis.Decision
}

var _ Classifier = (*Service)(nil)

// NewService 创建情绪分类服务。generator 为 nil 时使用离线关键词规则。
func NewService(generator ai.Generator) *Service {
	return &Service{
		generator: generator,
		fallback:  analysis.Analyze,
	}
}

// Enabled 返回是否由大模型进行分类。
func (s *Service) Enabled() bool {
	return s != nil && s.generator != nil
}

// Classify 请求模型给出情绪 JSON 并解析。词表外的标签归为 neutral，置信度截断到 0~10。
func (s *Service) Classify(ctx context.Context, text string) (chat.Detection, error) {
	if !s.Enabled() {
		decision := s.fallback(text)
		return chat.Detection{
			Emotion:     string(decision.Emotion),
			Confidence:  decision.Confidence,
			Explanation: "keyword match",
		}, nil
	}

	content, err := s.generator.Generate(ctx, ai.Request{
		System: classifierSystemPrompt,
		Query:  BuildPrompt(text),
	})
	if err != nil {
		return chat.Detection{}, fmt.Errorf("emotion classifier call failed: %w", err)
	}

	return ParseOutput(content)
}

// Detect 与 Classify 相同，但从不返回错误：失败时给出 neutral 与说明。
func (s *Service) Detect(ctx context.Context, text string) chat.Detection {
	detection, err := s.Classify(ctx, text)
	if err == nil {
		return detection
	}

	if errors.Is(err, ErrNoJSON) {
		return chat.Detection{Emotion: string(analysis.Neutral), Confidence: defaultConfidence, Explanation: noEmotionExplanation}
	}

	logger.S().Warnw("emotion detection failed, use neutral", "error", err)
	return chat.Detection{Emotion: string(analysis.Neutral), Confidence: defaultConfidence, Explanation: errorExplanation}
}

// BuildPrompt 构造限定词表的情绪分类提示词。
func BuildPrompt(message string) string {
	labels := make([]string, len(analysis.Vocabulary))
	for i, label := range analysis.Vocabulary {
		labels[i] = string(label)
	}

	return fmt.Sprintf(`Analyze the emotional tone in this message and identify the primary emotion the person is expressing.
Choose only ONE emotion from this list: %s

Message: %q

Return your answer as a JSON object with this format:
{
  "emotion": "the_detected_emotion",
  "confidence": 0-10,
  "explanation": "brief explanation of why this emotion was detected"
}

Just return the JSON object and nothing else.`, strings.Join(labels, ", "), message)
}

// ParseOutput 提取模型输出中第一个 "{" 到最后一个 "}" 之间的 JSON 并解析。
func ParseOutput(content string) (chat.Detection, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return chat.Detection{}, ErrNoJSON
	}

	var payload classifierPayload
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return chat.Detection{}, fmt.Errorf("decode classifier output: %w", err)
	}

	label := analysis.Neutral
	if payload.Emotion != "" {
		if parsed, ok := analysis.Parse(payload.Emotion); ok {
			label = parsed
		}
	}

	confidence, err := payload.confidence()
	if err != nil {
		return chat.Detection{}, err
	}

	return chat.Detection{
		Emotion:     string(label),
		Confidence:  confidence,
		Explanation: strings.TrimSpace(payload.Explanation),
	}, nil
}

type classifierPayload struct {
	Emotion     string          `json:"emotion"`
	Confidence  json.RawMessage `json:"confidence"`
	Explanation string          `json:"explanation"`
}

// confidence accepts numbers and numeric strings; a missing value means 5.
func (p classifierPayload) confidence() (float64, error) {
	raw := strings.TrimSpace(string(p.Confidence))
	if raw == "" || raw == "null" {
		return defaultConfidence, nil
	}

	var val float64
	if err := json.Unmarshal(p.Confidence, &val); err != nil {
		var str string
		if err := json.Unmarshal(p.Confidence, &str); err != nil {
			return 0, fmt.Errorf("invalid confidence %s", raw)
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid confidence %q: %w", str, err)
		}
		val = parsed
	}

	return clampConfidence(val), nil
}

func clampConfidence(val float64) float64 {
	if val < 0 {
		return 0
	}
	if val > maxConfidence {
		return maxConfidence
	}
	return val
}

const classifierSystemPrompt = "You are an emotion classifier. Answer with a single JSON object and no other text."
