package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/myrjola/agrolens/internal/camera"
	"github.com/myrjola/agrolens/internal/errors"
	"github.com/myrjola/agrolens/internal/language"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// Client talks to the disease-detection backend. Each Detect call is a
// single attempt; re-invocation after a language change is the caller's
// responsibility.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a detection client. An empty baseURL is allowed; Detect
// fails fast with ErrMissingBaseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		// Model inference plus treatment generation is slow.
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// BaseURL exposes the configured backend URL for display in error states.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// wire shapes of the backend's success body.
type responsePayload struct {
	DiseaseInfo struct {
		PredictedDisease string  `json:"predicted_disease"`
		ConfidenceScore  float64 `json:"confidence_score"`
	} `json:"disease_info"`
	TreatmentDetails struct {
		Medicines []struct {
			Name                     string `json:"name"`
			TypicalDosageApplication string `json:"typical_dosage_or_application"`
			Notes                    string `json:"notes"`
		} `json:"medicines"`
		Precautions []string `json:"precautions"`
		Causes      []string `json:"causes"`
		Summary     string   `json:"summary"`
		Disclaimer  string   `json:"disclaimer"`
	} `json:"treatment_details"`
}

// Detect submits the capture as multipart form content and normalizes the
// response into a Result or a typed failure.
func (c *Client) Detect(ctx context.Context, capture camera.Capture, lang language.Language) (*Result, error) {
	if c.baseURL == "" {
		return nil, errors.New("refusing to call detection backend").Wrap(ErrMissingBaseURL)
	}

	body, contentType, err := encodeMultipart(capture)
	if err != nil {
		return nil, errors.Wrap(err, "encode multipart form")
	}

	query := url.Values{}
	query.Set("language", lang.Name())

	var req *http.Request
	if req, err = http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/detect_disease?"+query.Encode(),
		body,
	); err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", contentType)

	var resp *http.Response
	if resp, err = c.client.Do(req); err != nil {
		return nil, &ConnectionError{BaseURL: c.baseURL}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var raw []byte
	if raw, err = io.ReadAll(resp.Body); err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	if http.StatusOK != resp.StatusCode {
		return nil, &HTTPError{
			Status: resp.StatusCode,
			Detail: foldErrorBody(resp.StatusCode, raw),
		}
	}

	var payload responsePayload
	if err = json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.New("decode detection response").Wrap(ErrUnexpectedFormat)
	}

	return normalize(payload), nil
}

func encodeMultipart(capture camera.Capture) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, capture.Filename))
	contentType := capture.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", errors.Wrap(err, "create form part")
	}
	if _, err = part.Write(capture.Data); err != nil {
		return nil, "", errors.Wrap(err, "write image data")
	}
	if err = writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}

	return body, writer.FormDataContentType(), nil
}

// normalize maps the wire payload into a Result, defaulting absent lists and
// strings to empty and computing the derived flags.
func normalize(payload responsePayload) *Result {
	disease := payload.DiseaseInfo.PredictedDisease

	medicines := make([]Medicine, 0, len(payload.TreatmentDetails.Medicines))
	for _, m := range payload.TreatmentDetails.Medicines {
		medicines = append(medicines, Medicine{
			Name:                m.Name,
			DosageOrApplication: m.TypicalDosageApplication,
			Notes:               m.Notes,
		})
	}

	precautions := payload.TreatmentDetails.Precautions
	if precautions == nil {
		precautions = []string{}
	}
	causes := payload.TreatmentDetails.Causes
	if causes == nil {
		causes = []string{}
	}

	return &Result{
		Disease:      disease,
		Confidence:   payload.DiseaseInfo.ConfidenceScore,
		Medicines:    medicines,
		Precautions:  precautions,
		Causes:       causes,
		Summary:      payload.TreatmentDetails.Summary,
		Disclaimer:   payload.TreatmentDetails.Disclaimer,
		Healthy:      deriveHealthy(disease),
		CropDetected: deriveCropDetected(disease),
	}
}

// foldErrorBody reduces an error response body to one message. A JSON body
// with a detail field is preferred: string details are used verbatim, array
// details are joined space-separated with non-string entries stringified,
// anything else is stringified whole. Non-JSON bodies fall back to a generic
// HTTP-error message with the raw text.
func foldErrorBody(status int, raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 {
		return foldDetail(body.Detail)
	}
	return fmt.Sprintf("HTTP error %d: %s", status, string(raw))
}

func foldDetail(detail json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(detail, &asString); err == nil {
		return asString
	}

	var asList []json.RawMessage
	if err := json.Unmarshal(detail, &asList); err == nil {
		parts := make([]string, 0, len(asList))
		for _, item := range asList {
			var s string
			if err = json.Unmarshal(item, &s); err == nil {
				parts = append(parts, s)
				continue
			}
			compact := new(bytes.Buffer)
			if err = json.Compact(compact, item); err != nil {
				parts = append(parts, string(item))
				continue
			}
			parts = append(parts, compact.String())
		}
		return strings.Join(parts, " ")
	}

	return string(detail)
}
