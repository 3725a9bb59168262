package nextcloud

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/akablas/akalisten/internal/model"
)

// FormListType selects which forms GetForms lists
type FormListType string

// form list types
const (
	FormsOwned  FormListType = "owned"
	FormsShared FormListType = "shared"
)

// GetForms lists the forms owned by or shared with the user
func (c *Client) GetForms(ctx context.Context, listType FormListType) ([]model.CondensedForm, error) {
	forms, err := getOCS[[]model.CondensedForm](ctx, c, formsRoot+"forms", url.Values{"type": {string(listType)}})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s forms: %w", listType, err)
	}
	return forms, nil
}

// GetForm returns the full form
func (c *Client) GetForm(ctx context.Context, formID int) (model.FullForm, error) {
	form, err := getOCS[model.FullForm](ctx, c, fmt.Sprintf("%sforms/%d", formsRoot, formID), nil)
	if err != nil {
		return model.FullForm{}, fmt.Errorf("failed to get form %d: %w", formID, err)
	}
	return form, nil
}

// GetAllForms fetches the shared and owned forms with all details. Forms
// appearing in both listings are returned once.
func (c *Client) GetAllForms(ctx context.Context) ([]model.FormInfo, error) {
	var shared, owned []model.CondensedForm

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shared, err = c.GetForms(gctx, FormsShared)
		return err
	})
	g.Go(func() error {
		var err error
		owned, err = c.GetForms(gctx, FormsOwned)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var ids []int
	for _, f := range append(shared, owned...) {
		if !seen[f.ID] {
			seen[f.ID] = true
			ids = append(ids, f.ID)
		}
	}

	forms := make([]model.FormInfo, len(ids))
	g, gctx = errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			form, err := c.GetForm(gctx, id)
			if err != nil {
				return err
			}
			forms[i] = model.FormInfo{Form: form, BaseURL: c.baseURL}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return forms, nil
}
