package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	mediaUploadTimeout = 120 * time.Second

	// TransformationBackgroundRemoval strips the image background during upload.
	TransformationBackgroundRemoval = "e_background_removal"
)

// MediaUpload is the media host's record of a stored asset.
type MediaUpload struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// MediaHost stores images on a CDN-backed media service and builds delivery
// URLs with fetch-time transformations.
type MediaHost interface {
	// UploadFile uploads raw image bytes. A non-empty transformation is applied
	// eagerly during the upload.
	UploadFile(ctx context.Context, file io.Reader, filename, transformation string) (*MediaUpload, error)
	// UploadDataURI uploads an inline base64 data URI.
	UploadDataURI(ctx context.Context, dataURI string) (*MediaUpload, error)
	// DeliveryURL builds a fetch URL for an uploaded asset with the given
	// transformation applied at delivery time. No second upload is needed.
	DeliveryURL(publicID, transformation string) string
}

type mediaHostClient struct {
	client      *http.Client
	uploadURL   string
	deliveryURL string
	cloudName   string
	apiKey      string
	apiSecret   string
	now         func() time.Time
}

func NewMediaHostClient(uploadURL, deliveryURL, cloudName, apiKey, apiSecret string) MediaHost {
	return &mediaHostClient{
		client:      &http.Client{Timeout: mediaUploadTimeout},
		uploadURL:   strings.TrimSuffix(uploadURL, "/"),
		deliveryURL: strings.TrimSuffix(deliveryURL, "/"),
		cloudName:   cloudName,
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		now:         time.Now,
	}
}

func (c *mediaHostClient) UploadFile(ctx context.Context, file io.Reader, filename, transformation string) (*MediaUpload, error) {
	var form strings.Builder
	writer := multipart.NewWriter(&form)

	params := c.signedParams(transformation)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("writing %s field: %w", key, err)
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copying file contents: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing form writer: %w", err)
	}

	return c.doUpload(ctx, strings.NewReader(form.String()), writer.FormDataContentType())
}

func (c *mediaHostClient) UploadDataURI(ctx context.Context, dataURI string) (*MediaUpload, error) {
	var form strings.Builder
	writer := multipart.NewWriter(&form)

	params := c.signedParams("")
	params["file"] = dataURI
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("writing %s field: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing form writer: %w", err)
	}

	return c.doUpload(ctx, strings.NewReader(form.String()), writer.FormDataContentType())
}

func (c *mediaHostClient) DeliveryURL(publicID, transformation string) string {
	return fmt.Sprintf("%s/%s/image/upload/%s/%s", c.deliveryURL, c.cloudName, transformation, publicID)
}

func (c *mediaHostClient) doUpload(ctx context.Context, body io.Reader, contentType string) (*MediaUpload, error) {
	endpoint := fmt.Sprintf("%s/%s/image/upload", c.uploadURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling media host: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrProviderQuota
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media upload failed: %s", providerErrorMessage(respBody, resp.StatusCode))
	}

	var upload MediaUpload
	if err := json.Unmarshal(respBody, &upload); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	return &upload, nil
}

// signedParams builds the request parameters and their API signature: the
// SHA-1 hex digest of the sorted key=value pairs joined by "&", with the
// secret appended.
func (c *mediaHostClient) signedParams(transformation string) map[string]string {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)

	toSign := map[string]string{"timestamp": timestamp}
	if transformation != "" {
		toSign["transformation"] = transformation
	}

	keys := make([]string, 0, len(toSign))
	for k := range toSign {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+toSign[k])
	}
	digest := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))

	params := map[string]string{
		"api_key":   c.apiKey,
		"timestamp": timestamp,
		"signature": hex.EncodeToString(digest[:]),
	}
	if transformation != "" {
		params["transformation"] = transformation
	}
	return params
}
