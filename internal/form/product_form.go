package form

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/models"
)

var (
	validate      = validator.New(validator.WithRequiredStructEnabled())
	linkSeparator = regexp.MustCompile(`[,\s]+`)
)

// ProductForm is the state of the create and edit product screens.
type ProductForm struct {
	// ID is set when the form edits an existing product.
	ID          string `validate:"-"`
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Category    string `validate:"required"`
	ComingSoon  bool
	Links       models.LinkSet
	Images      []ImageRef

	removed []string
	cleared bool
}

func NewProductForm() *ProductForm {
	return &ProductForm{Links: models.LinkSet{}}
}

// LoadProduct fills the form for editing; stored images become remote refs.
func LoadProduct(p models.Product) *ProductForm {
	f := &ProductForm{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		ComingSoon:  p.ComingSoon,
		Links:       models.NewLinkSet(p.ProductLink...),
	}
	for _, url := range p.Images {
		f.Images = append(f.Images, ImageRef{Source: url, State: StateRemote})
	}
	return f
}

// AddLinks splits input on commas, spaces and newlines and appends the links not present yet.
// It returns how many were added.
func (f *ProductForm) AddLinks(input string) int {
	before := len(f.Links)
	f.Links = models.NewLinkSet(append(f.Links, linkSeparator.Split(input, -1)...)...)
	return len(f.Links) - before
}

func (f *ProductForm) RemoveLink(i int) {
	if i < 0 || i >= len(f.Links) {
		return
	}
	f.Links = slices.Delete(f.Links, i, i+1)
}

// AddImage adds an image given as a URL or a data URI.
func (f *ProductForm) AddImage(src string) error {
	ref, err := refFromSource(src)
	if err != nil {
		return err
	}
	f.Images = append(f.Images, ref)
	return nil
}

func (f *ProductForm) AddImageFile(path string) error {
	ref, err := readImageFile(path)
	if err != nil {
		return err
	}
	f.Images = append(f.Images, ref)
	return nil
}

// RemoveImage drops the image at i. Remote images are remembered so the server can destroy them.
func (f *ProductForm) RemoveImage(i int) {
	if i < 0 || i >= len(f.Images) {
		return
	}
	if ref := f.Images[i]; ref.State == StateRemote && !slices.Contains(f.removed, ref.Source) {
		f.removed = append(f.removed, ref.Source)
	}
	f.Images = slices.Delete(f.Images, i, i+1)
}

// ClearImages removes every image, including any the server holds that the form never loaded.
func (f *ProductForm) ClearImages() {
	for len(f.Images) > 0 {
		f.RemoveImage(0)
	}
	f.cleared = true
}

func (f *ProductForm) Removed() []string {
	return slices.Clone(f.removed)
}

func (f *ProductForm) sources() []string {
	out := make([]string, 0, len(f.Images))
	for _, ref := range f.Images {
		out = append(out, ref.Source)
	}
	return out
}

func (f *ProductForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.TrimSpace(f.Category)

	if err := validate.Struct(f); err != nil {
		var missing []string
		for _, fe := range err.(validator.ValidationErrors) {
			missing = append(missing, strings.ToLower(fe.Field()))
		}
		return errs.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}

	if !slices.Contains(models.Categories, f.Category) {
		return errs.Validation(fmt.Sprintf("Category must be one of: %s", strings.Join(models.Categories, ", ")))
	}
	return nil
}

func (f *ProductForm) CreatePayload() (models.ProductInput, error) {
	if err := f.Validate(); err != nil {
		return models.ProductInput{}, err
	}

	return models.ProductInput{
		Name:        f.Name,
		Description: f.Description,
		Category:    f.Category,
		Images:      f.sources(),
		ProductLink: models.NewLinkSet(f.Links...),
		ComingSoon:  f.ComingSoon,
	}, nil
}

// UpdatePayload sends every field. Images lists what the form still shows, removed remote
// images go in RemovedImages.
func (f *ProductForm) UpdatePayload() (models.ProductUpdate, error) {
	if f.ID == "" {
		return models.ProductUpdate{}, errs.Validation("Product id is required")
	}
	if err := f.Validate(); err != nil {
		return models.ProductUpdate{}, err
	}

	links := models.NewLinkSet(f.Links...)
	comingSoon := f.ComingSoon
	images := f.sources()

	return models.ProductUpdate{
		Name:          f.Name,
		Description:   f.Description,
		Category:      f.Category,
		Images:        images,
		ClearImages:   f.cleared && len(images) == 0,
		RemovedImages: f.Removed(),
		ProductLink:   &links,
		ComingSoon:    &comingSoon,
	}, nil
}
