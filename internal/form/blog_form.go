package form

import (
	"strings"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/models"
)

type BlogForm struct {
	ID          string
	Title       string
	Description string
	Image       *ImageRef
}

func LoadBlog(b models.Blog) *BlogForm {
	f := &BlogForm{ID: b.ID, Title: b.BlogTitle, Description: b.BlogDescription}
	if b.BlogImage != "" {
		f.Image = &ImageRef{Source: b.BlogImage, State: StateRemote}
	}
	return f
}

// SetImage replaces the image with a URL or a data URI. The previous image stays in the asset store.
func (f *BlogForm) SetImage(src string) error {
	ref, err := refFromSource(src)
	if err != nil {
		return err
	}
	f.Image = &ref
	return nil
}

func (f *BlogForm) SetImageFile(path string) error {
	ref, err := readImageFile(path)
	if err != nil {
		return err
	}
	f.Image = &ref
	return nil
}

// Payload is used for both create and update.
func (f *BlogForm) Payload() (models.BlogInput, error) {
	in := models.BlogInput{
		BlogTitle:       strings.TrimSpace(f.Title),
		BlogDescription: strings.TrimSpace(f.Description),
	}
	if f.Image != nil {
		in.BlogImage = f.Image.Source
	}

	var missing []string
	if in.BlogTitle == "" {
		missing = append(missing, "blogTitle")
	}
	if in.BlogDescription == "" {
		missing = append(missing, "blogDescription")
	}
	if in.BlogImage == "" {
		missing = append(missing, "blogImage")
	}
	if len(missing) > 0 {
		return models.BlogInput{}, errs.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}

	return in, nil
}
