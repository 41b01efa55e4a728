package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"perfumeadmin/internal/client"
	"perfumeadmin/internal/form"
	"perfumeadmin/internal/models"
)

// addImage treats src as a file path when it exists on disk, otherwise as a URL or data URI.
func addImage(src string, fromFile, fromSource func(string) error) error {
	if _, err := os.Stat(src); err == nil {
		return fromFile(src)
	}
	return fromSource(src)
}

func needID(fs *flag.FlagSet, args []string) (string, error) {
	if len(args) < 1 || args[0] == "" || args[0][0] == '-' {
		return "", fmt.Errorf("%s: missing id", fs.Name())
	}
	return args[0], fs.Parse(args[1:])
}

func (c *cli) products(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("products: missing subcommand")
	}
	store := client.NewProductStore(c.api, c.notifier)

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("products list", flag.ContinueOnError)
		category := fs.String("category", "", "only this category")
		featured := fs.Bool("featured", false, "only featured products")
		if err := fs.Parse(rest); err != nil {
			return err
		}

		var err error
		switch {
		case *featured:
			err = store.FetchFeatured(ctx)
		case *category != "":
			err = store.FetchByCategory(ctx, *category)
		default:
			err = store.Fetch(ctx)
		}
		if err != nil {
			return errors.New(store.State().Error)
		}
		return printJSON(c.out, store.State().Products)

	case "create":
		fs := flag.NewFlagSet("products create", flag.ContinueOnError)
		f := form.NewProductForm()
		fs.StringVar(&f.Name, "name", "", "name")
		fs.StringVar(&f.Description, "description", "", "description")
		fs.StringVar(&f.Category, "category", "", fmt.Sprintf("one of %v", models.Categories))
		fs.BoolVar(&f.ComingSoon, "coming-soon", false, "mark as coming soon")
		var links, images stringList
		fs.Var(&links, "link", "product link (repeatable, comma separated)")
		fs.Var(&images, "image", "image file, URL or data URI (repeatable)")
		if err := fs.Parse(rest); err != nil {
			return err
		}

		for _, l := range links {
			f.AddLinks(l)
		}
		for _, img := range images {
			if err := addImage(img, f.AddImageFile, f.AddImage); err != nil {
				return err
			}
		}

		in, err := f.CreatePayload()
		if err != nil {
			return err
		}
		product, err := store.Create(ctx, in)
		if err != nil {
			return errors.New(store.State().Error)
		}
		return printJSON(c.out, product)

	case "update":
		fs := flag.NewFlagSet("products update", flag.ContinueOnError)
		name := fs.String("name", "", "new name")
		description := fs.String("description", "", "new description")
		category := fs.String("category", "", "new category")
		linkInput := fs.String("links", "", "replace the links")
		comingSoon := fs.Bool("coming-soon", false, "coming soon flag")
		clearImages := fs.Bool("clear-images", false, "remove every image")
		var images, removed stringList
		fs.Var(&images, "image", "image to add (repeatable)")
		fs.Var(&removed, "remove-image", "image URL to remove (repeatable)")

		id, err := needID(fs, rest)
		if err != nil {
			return err
		}

		set := map[string]bool{}
		fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

		if err := store.Fetch(ctx); err != nil {
			return errors.New(store.State().Error)
		}
		var current *models.Product
		for _, p := range store.State().Products {
			if p.ID == id {
				p := p
				current = &p
			}
		}
		if current == nil {
			return fmt.Errorf("product %s not found", id)
		}
		store.SetCurrent(current)

		f := form.LoadProduct(*current)
		if set["name"] {
			f.Name = *name
		}
		if set["description"] {
			f.Description = *description
		}
		if set["category"] {
			f.Category = *category
		}
		if set["coming-soon"] {
			f.ComingSoon = *comingSoon
		}
		if set["links"] {
			f.Links = models.LinkSet{}
			f.AddLinks(*linkInput)
		}
		if *clearImages {
			f.ClearImages()
		}
		for _, url := range removed {
			for i, ref := range f.Images {
				if ref.Source == url {
					f.RemoveImage(i)
					break
				}
			}
		}
		for _, img := range images {
			if err := addImage(img, f.AddImageFile, f.AddImage); err != nil {
				return err
			}
		}

		in, err := f.UpdatePayload()
		if err != nil {
			return err
		}
		product, err := store.Update(ctx, id, in)
		if err != nil {
			return errors.New(store.State().Error)
		}
		return printJSON(c.out, product)

	case "feature":
		fs := flag.NewFlagSet("products feature", flag.ContinueOnError)
		id, err := needID(fs, rest)
		if err != nil {
			return err
		}
		if err := store.ToggleFeatured(ctx, id); err != nil {
			return errors.New(store.State().Error)
		}
		return nil

	case "delete":
		fs := flag.NewFlagSet("products delete", flag.ContinueOnError)
		id, err := needID(fs, rest)
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, id); err != nil {
			return errors.New(store.State().Error)
		}
		return nil
	}
	return fmt.Errorf("products: unknown subcommand %q", sub)
}

func (c *cli) blogs(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("blogs: missing subcommand")
	}
	store := client.NewBlogStore(c.api, c.notifier)

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		if err := store.Fetch(ctx); err != nil {
			return errors.New(store.State().Error)
		}
		return printJSON(c.out, store.State().Blogs)

	case "get":
		id, err := needID(flag.NewFlagSet("blogs get", flag.ContinueOnError), rest)
		if err != nil {
			return err
		}
		if err := store.FetchByID(ctx, id); err != nil {
			return errors.New(store.State().Error)
		}
		return printJSON(c.out, store.State().Current)

	case "create", "update":
		fs := flag.NewFlagSet("blogs "+sub, flag.ContinueOnError)
		title := fs.String("title", "", "title")
		description := fs.String("description", "", "description")
		image := fs.String("image", "", "image file, URL or data URI")

		f := &form.BlogForm{}
		var id string
		if sub == "update" {
			var err error
			if id, err = needID(fs, rest); err != nil {
				return err
			}
			if err := store.FetchByID(ctx, id); err != nil {
				return errors.New(store.State().Error)
			}
			f = form.LoadBlog(*store.State().Current)
		} else if err := fs.Parse(rest); err != nil {
			return err
		}

		if *title != "" {
			f.Title = *title
		}
		if *description != "" {
			f.Description = *description
		}
		if *image != "" {
			if err := addImage(*image, f.SetImageFile, f.SetImage); err != nil {
				return err
			}
		}

		in, err := f.Payload()
		if err != nil {
			return err
		}

		var blog *models.Blog
		if sub == "update" {
			blog, err = store.Update(ctx, id, in)
		} else {
			blog, err = store.Create(ctx, in)
		}
		if err != nil {
			return errors.New(store.State().Error)
		}
		return printJSON(c.out, blog)

	case "delete":
		id, err := needID(flag.NewFlagSet("blogs delete", flag.ContinueOnError), rest)
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, id); err != nil {
			return errors.New(store.State().Error)
		}
		return nil
	}
	return fmt.Errorf("blogs: unknown subcommand %q", sub)
}

func (c *cli) users(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("users: missing subcommand")
	}
	store := client.NewUserStore(c.api, c.notifier)

	switch args[0] {
	case "list":
		if err := store.Fetch(ctx); err != nil {
			return errors.New(store.State().Error)
		}
		return printJSON(c.out, store.State().Users)
	case "role":
		if len(args) != 3 {
			return errors.New("usage: users role <id> visitor|admin")
		}
		if err := store.SetRole(ctx, args[1], models.Role(args[2])); err != nil {
			return errors.New(store.State().Error)
		}
		return nil
	}
	return fmt.Errorf("users: unknown subcommand %q", args[0])
}
