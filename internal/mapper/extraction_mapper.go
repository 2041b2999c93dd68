package mapper

import (
	"fmt"
	"strings"

	"pdf-extractor/internal/dto"
	"pdf-extractor/pkg/extraction"
	"pdf-extractor/pkg/store"
)

const (
	SubmitLabelIdle    = "Extract Information"
	SubmitLabelLoading = "Processing..."
)

type ExtractionMapper struct{}

func NewExtractionMapper() *ExtractionMapper {
	return &ExtractionMapper{}
}

// ToUIStateResponse builds the display view of a session snapshot.
func (m *ExtractionMapper) ToUIStateResponse(snap store.Snapshot) (dto.UIStateResponse, error) {
	loading := snap.IsLoading()

	res := dto.UIStateResponse{
		SessionId:   snap.ID,
		Status:      snap.State.Status(),
		CanSubmit:   snap.File != nil && !loading,
		SubmitLabel: SubmitLabelIdle,
	}
	if loading {
		res.SubmitLabel = SubmitLabelLoading
	}
	if snap.File != nil {
		res.File = m.ToFileSummary(*snap.File)
	}

	switch st := snap.State.(type) {
	case store.Failed:
		res.Error = st.Message
	case store.Success:
		fields, err := m.ToFieldViews(st.Result)
		if err != nil {
			return dto.UIStateResponse{}, err
		}
		res.Fields = fields
	}
	return res, nil
}

func (m *ExtractionMapper) ToFileSummary(doc extraction.Document) *dto.FileSummary {
	return &dto.FileSummary{
		Name:     doc.Filename,
		Size:     doc.Size(),
		MimeType: doc.MIMEType,
	}
}

// ToFieldViews renders the four result rows in display order.
func (m *ExtractionMapper) ToFieldViews(result extraction.Result) ([]dto.FieldView, error) {
	views := make([]dto.FieldView, 0, len(extraction.Fields))
	for _, f := range extraction.Fields {
		score, ok := result.Confidence[f]
		if !ok {
			return nil, fmt.Errorf("missing confidence for %s", f)
		}
		cv, err := extraction.RenderConfidence(score)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}

		value, found := displayValue(f, result.Value(f))
		views = append(views, dto.FieldView{
			Key:   string(f),
			Label: f.Label(),
			Value: value,
			Found: found,
			Confidence: dto.ConfidenceView{
				Score:   cv.Score,
				Percent: cv.Percent,
				Tier:    string(cv.Tier),
				Color:   cv.Tier.Color(),
			},
		})
	}
	return views, nil
}

func displayValue(f extraction.Field, v *string) (string, bool) {
	if f == extraction.FieldAddress {
		if v == nil {
			return extraction.NotFound, false
		}
		return extraction.FormatAddress(v), true
	}
	if v == nil || strings.TrimSpace(*v) == "" {
		return extraction.NotFound, false
	}
	return *v, true
}
