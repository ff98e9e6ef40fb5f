package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/AzielCF/az-planner/config"
	pkgError "github.com/AzielCF/az-planner/pkg/error"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Client talks to the Telegram Bot API. The only method the delivery
// orchestrator needs is sendPhoto; the photo is either a public URL (passed
// through) or a local file (downscaled and uploaded as multipart).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    config.TelegramAPIBase,
		httpClient: &http.Client{Timeout: config.TelegramSendTimeout},
	}
}

// NewClientWithBase is used by tests to point at a local fake API.
func NewClientWithBase(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: config.TelegramSendTimeout},
	}
}

type apiResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) SendPhoto(ctx context.Context, botToken, chatID, imageRef, captionHTML string) error {
	if strings.HasPrefix(imageRef, "http://") || strings.HasPrefix(imageRef, "https://") {
		return c.sendPhotoByURL(ctx, botToken, chatID, imageRef, captionHTML)
	}
	return c.sendPhotoUpload(ctx, botToken, chatID, imageRef, captionHTML)
}

func (c *Client) sendPhotoByURL(ctx context.Context, botToken, chatID, photoURL, captionHTML string) error {
	payload := map[string]string{
		"chat_id":    chatID,
		"photo":      photoURL,
		"caption":    captionHTML,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", c.baseURL, botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) sendPhotoUpload(ctx context.Context, botToken, chatID, imagePath, captionHTML string) error {
	photoBytes, err := preparePhoto(imagePath)
	if err != nil {
		return pkgError.InternalServerError(fmt.Sprintf("failed to prepare image %s: %v", imagePath, err))
	}
	logrus.Debugf("[PUBLISH] uploading %s (%s)", filepath.Base(imagePath), humanize.Bytes(uint64(len(photoBytes))))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, value := range map[string]string{
		"chat_id":    chatID,
		"caption":    captionHTML,
		"parse_mode": "HTML",
	} {
		if err := writer.WriteField(field, value); err != nil {
			return err
		}
	}
	part, err := writer.CreateFormFile("photo", filepath.Base(imagePath))
	if err != nil {
		return err
	}
	if _, err := part.Write(photoBytes); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", c.baseURL, botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgError.DeliveryError(err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		if resp.StatusCode >= 300 {
			return pkgError.DeliveryError(fmt.Sprintf("telegram returned status %d", resp.StatusCode))
		}
		return pkgError.DeliveryError("telegram returned an unreadable response")
	}
	if !api.Ok {
		description := strings.TrimSpace(api.Description)
		if description == "" {
			description = fmt.Sprintf("telegram rejected the send (status %d)", resp.StatusCode)
		}
		// Surfaced verbatim so the caller sees the destination's own words.
		return pkgError.DeliveryError(description)
	}
	return nil
}

// preparePhoto loads a local image and downscales it so Telegram accepts it
// as a photo without server-side recompression artifacts.
func preparePhoto(path string) ([]byte, error) {
	img, err := imaging.Open(path)
	if err != nil {
		// Not decodable (or not an image we understand): send the raw bytes
		// and let the destination judge.
		return os.ReadFile(path)
	}

	maxPx := config.TelegramMaxPhotoPx
	if maxPx > 0 && (img.Bounds().Dx() > maxPx || img.Bounds().Dy() > maxPx) {
		img = imaging.Fit(img, maxPx, maxPx, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
