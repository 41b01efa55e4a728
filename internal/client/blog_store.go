package client

import (
	"context"
	"slices"

	"perfumeadmin/internal/models"
)

type BlogState struct {
	Blogs   []models.Blog
	Current *models.Blog
	Loading bool
	Error   string
}

func cloneBlogState(s BlogState) BlogState {
	s.Blogs = slices.Clone(s.Blogs)
	if s.Current != nil {
		current := *s.Current
		s.Current = &current
	}
	return s
}

type BlogStore struct {
	api      *API
	notifier Notifier
	st       store[BlogState]
}

func NewBlogStore(api *API, notifier Notifier) *BlogStore {
	return &BlogStore{
		api:      api,
		notifier: notifier,
		st:       store[BlogState]{clone: cloneBlogState},
	}
}

func (s *BlogStore) State() BlogState {
	return s.st.snapshot()
}

func (s *BlogStore) OnChange(fn func(BlogState)) {
	s.st.subscribe(fn)
}

func (s *BlogStore) SetCurrent(blog *models.Blog) {
	s.st.set(func(st *BlogState) { st.Current = blog })
}

func (s *BlogStore) begin() {
	s.st.set(func(st *BlogState) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *BlogStore) fail(err error, fallback string) error {
	message := FailureMessage(err, fallback)
	s.st.set(func(st *BlogState) {
		st.Loading = false
		st.Error = message
	})
	s.notifier.Error(message)
	return err
}

func (s *BlogStore) Fetch(ctx context.Context) error {
	s.begin()
	blogs, err := s.api.ListBlogs(ctx)
	if err != nil {
		return s.fail(err, "Failed to fetch blogs")
	}

	s.st.set(func(st *BlogState) {
		st.Blogs = blogs
		st.Loading = false
	})
	return nil
}

// FetchByID loads a single blog into Current.
func (s *BlogStore) FetchByID(ctx context.Context, blogID string) error {
	s.begin()
	blog, err := s.api.GetBlog(ctx, blogID)
	if err != nil {
		return s.fail(err, "Failed to fetch blog")
	}

	s.st.set(func(st *BlogState) {
		st.Current = blog
		st.Loading = false
	})
	return nil
}

func (s *BlogStore) Create(ctx context.Context, in models.BlogInput) (*models.Blog, error) {
	s.begin()
	blog, err := s.api.CreateBlog(ctx, in)
	if err != nil {
		return nil, s.fail(err, "Failed to create blog")
	}

	s.st.set(func(st *BlogState) {
		st.Blogs = append(st.Blogs, *blog)
		st.Loading = false
	})
	s.notifier.Success("Blog created successfully")
	return blog, nil
}

func (s *BlogStore) Update(ctx context.Context, blogID string, in models.BlogInput) (*models.Blog, error) {
	s.begin()
	blog, err := s.api.UpdateBlog(ctx, blogID, in)
	if err != nil {
		return nil, s.fail(err, "Failed to update blog")
	}

	s.st.set(func(st *BlogState) {
		for i := range st.Blogs {
			if st.Blogs[i].ID == blogID {
				st.Blogs[i] = *blog
			}
		}
		st.Current = nil
		st.Loading = false
	})
	s.notifier.Success("Blog updated successfully")
	return blog, nil
}

func (s *BlogStore) Delete(ctx context.Context, blogID string) error {
	s.begin()
	if err := s.api.DeleteBlog(ctx, blogID); err != nil {
		return s.fail(err, "Failed to delete blog")
	}

	s.st.set(func(st *BlogState) {
		st.Blogs = slices.DeleteFunc(st.Blogs, func(b models.Blog) bool { return b.ID == blogID })
		if st.Current != nil && st.Current.ID == blogID {
			st.Current = nil
		}
		st.Loading = false
	})
	s.notifier.Success("Blog deleted successfully")
	return nil
}
