package service

import (
	"context"
	"errors"
	"log"
)

// ErrNoExtractionInput means the request carried neither a URL nor an
// image. Client error, no retry.
var ErrNoExtractionInput = errors.New("neither url nor image provided")

// Completer sends a chat request and returns the raw reply text.
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// ContentResolver obtains textual and preview-image representations of a URL.
type ContentResolver interface {
	Scrape(ctx context.Context, pageURL string) (string, error)
	PreviewImage(ctx context.Context, pageURL string) *string
}

// SocialResolver extracts caption and image from a social-media post.
type SocialResolver interface {
	Extract(ctx context.Context, postURL string) (*SocialPost, error)
}

// AssetPersister stores a binary asset or passes through a public address.
type AssetPersister interface {
	PersistImage(ctx context.Context, asset *ImageAsset, publicURL string) (*string, error)
}

// ExtractionRequest is a single ingestion submission. Exactly one entry
// mode applies: url, url+social, or image.
type ExtractionRequest struct {
	URL    string
	Social bool
	Image  *ImageAsset
}

// RecipeDraft is the extracted-but-not-yet-saved recipe returned to the
// client. It carries no owner and no identity until a human submits it
// through the creation form.
type RecipeDraft struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Ingredients    []string `json:"ingredients"`
	Steps          []string `json:"steps"`
	MealType       string   `json:"meal_type"`
	Cuisine        string   `json:"cuisine"`
	ImageURL       *string  `json:"image_url"`
	ImageSourceURL *string  `json:"image_source_url"`
}

// ExtractService drives the ingestion pipeline: normalize, resolve
// content, build the completion request, parse the reply, persist the
// asset.
type ExtractService struct {
	completer   Completer
	resolver    ContentResolver
	social      SocialResolver
	assets      AssetPersister
	jpegQuality int
}

// NewExtractService creates a new ExtractService instance
func NewExtractService(completer Completer, resolver ContentResolver, social SocialResolver, assets AssetPersister, jpegQuality int) *ExtractService {
	return &ExtractService{
		completer:   completer,
		resolver:    resolver,
		social:      social,
		assets:      assets,
		jpegQuality: jpegQuality,
	}
}

// Extract runs one ingestion request to completion and returns the draft.
func (s *ExtractService) Extract(ctx context.Context, req *ExtractionRequest) (*RecipeDraft, error) {
	switch {
	case req.URL != "" && req.Social:
		return s.extractSocial(ctx, req.URL)
	case req.URL != "":
		return s.extractURL(ctx, req.URL)
	case req.Image != nil:
		return s.extractImage(ctx, req.Image)
	default:
		return nil, ErrNoExtractionInput
	}
}

func (s *ExtractService) extractSocial(ctx context.Context, postURL string) (*RecipeDraft, error) {
	post, err := s.social.Extract(ctx, postURL)
	if err != nil {
		return nil, err
	}

	reply, err := s.completer.Complete(ctx, BuildCaptionRequest(post.Caption))
	if err != nil {
		return nil, err
	}

	parsed, err := ParseRecipeReply(reply)
	if err != nil {
		log.Printf("[ExtractService] unparseable reply for social post %s: %s", postURL, reply)
		return nil, err
	}

	draft := draftFromParsed(parsed)
	draft.ImageURL, _ = s.assets.PersistImage(ctx, nil, post.ImageURL)
	if post.ImageURL != "" {
		source := postURL
		draft.ImageSourceURL = &source
	}
	return draft, nil
}

func (s *ExtractService) extractURL(ctx context.Context, pageURL string) (*RecipeDraft, error) {
	// The preview lookup is independent of the scrape and absorbed to nil
	// on failure, so the two run concurrently and only the scrape outcome
	// decides success.
	previewCh := make(chan *string, 1)
	go func() {
		previewCh <- s.resolver.PreviewImage(ctx, pageURL)
	}()

	markdown, err := s.resolver.Scrape(ctx, pageURL)
	if err != nil {
		<-previewCh
		return nil, err
	}
	preview := <-previewCh

	reply, err := s.completer.Complete(ctx, BuildScrapedContentRequest(markdown))
	if err != nil {
		return nil, err
	}

	parsed, err := ParseRecipeReply(reply)
	if err != nil {
		log.Printf("[ExtractService] unparseable reply for %s: %s", pageURL, reply)
		return nil, err
	}

	draft := draftFromParsed(parsed)
	if preview != nil {
		draft.ImageURL, _ = s.assets.PersistImage(ctx, nil, *preview)
		source := pageURL
		draft.ImageSourceURL = &source
	}
	return draft, nil
}

func (s *ExtractService) extractImage(ctx context.Context, image *ImageAsset) (*RecipeDraft, error) {
	asset, err := NormalizeImage(image, s.jpegQuality)
	if err != nil {
		return nil, err
	}

	reply, err := s.completer.Complete(ctx, BuildImageRequest(asset.Data, asset.MediaType))
	if err != nil {
		return nil, err
	}

	parsed, err := ParseRecipeReply(reply)
	if err != nil {
		log.Printf("[ExtractService] unparseable reply for image %s: %s", asset.FileName, reply)
		return nil, err
	}

	draft := draftFromParsed(parsed)

	// The image is supplementary; a storage failure degrades to a draft
	// without an image instead of failing the extraction.
	imageURL, err := s.assets.PersistImage(ctx, asset, "")
	if err != nil {
		log.Printf("[ExtractService] image persistence failed, continuing without image: %v", err)
	} else {
		draft.ImageURL = imageURL
	}
	return draft, nil
}

func draftFromParsed(parsed *ParsedRecipe) *RecipeDraft {
	return &RecipeDraft{
		Title:       parsed.Title,
		Description: parsed.Description,
		Ingredients: parsed.Ingredients,
		Steps:       parsed.Steps,
		MealType:    parsed.MealType,
		Cuisine:     parsed.Cuisine,
	}
}
