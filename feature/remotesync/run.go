package remotesync

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"category-manager/core/reconcile"
	"category-manager/core/remote"
	"category-manager/core/taxonomy"

	"go.uber.org/zap"
)

// run is the state of one Apply or EnsurePaths call.
type run struct {
	sync   *Synchronizer
	sctx   *SyncContext
	opts   reconcile.Options
	logger *zap.Logger
	result reconcile.Result
	reason string
}

func (r *run) tree() *Tree {
	return r.sctx.Tree
}

// mergeDuplicates collapses every group of nodes sharing a path into the
// smallest id of the group.
func (r *run) mergeDuplicates(ctx context.Context) {
	groups := r.tree().Duplicates()
	for _, ids := range groups {
		for _, dup := range ids[1:] {
			canonical := r.sctx.Resolve(ids[0])
			if dup == canonical || !r.tree().Has(dup) || !r.tree().Has(canonical) {
				continue
			}
			path := r.tree().Path(dup)
			if path == "" || path != r.tree().Path(canonical) {
				continue
			}

			r.reason = "duplicate " + path
			r.logger.Info("Merging duplicate path", zap.String("path", path), zap.Int64("from", dup), zap.Int64("into", canonical))
			if err := r.merge(ctx, dup, canonical); err != nil {
				r.logger.Error("Duplicate merge failed", zap.String("path", path), zap.Int64("from", dup), zap.Error(err))
				r.result.Fail("merge duplicate %s (%d into %d): %v", path, dup, canonical, err)
			}
		}
	}
	r.reason = ""
	r.sctx.Reindex()
}

func (r *run) applyRule(ctx context.Context, rule taxonomy.Rule) error {
	r.reason = rule.String()
	defer func() { r.reason = "" }()

	oldID, hasOld := r.sctx.Lookup(rule.Old)
	newID, hasNew := r.sctx.Lookup(rule.New)

	switch {
	case hasOld && hasNew && oldID != newID:
		r.logger.Info("Merging categories", zap.String("rule", rule.String()), zap.Int64("from", oldID), zap.Int64("into", newID))
		return r.merge(ctx, oldID, newID)
	case !hasOld && hasNew:
		r.logger.Info("Rule already applied or absent", zap.String("rule", rule.String()))
		return nil
	case !hasOld:
		r.logger.Warn("Node not found", zap.String("path", rule.Old))
		r.result.Advise("node not found: %s", rule.Old)
		return nil
	}

	if taxonomy.IsWithin(rule.New, rule.Old) {
		return ErrTargetInsideSource
	}

	parentID := int64(0)
	if parentPath := taxonomy.ParentPath(rule.New); parentPath != "" {
		id, err := r.ensurePath(ctx, parentPath)
		if err != nil {
			return fmt.Errorf("ensure parent %s: %w", parentPath, err)
		}
		parentID = id
	}

	return r.relocate(ctx, oldID, taxonomy.LeafName(rule.New), parentID)
}

// ensurePath returns the id at path, creating missing segments top-down.
func (r *run) ensurePath(ctx context.Context, path string) (int64, error) {
	parts := taxonomy.SplitPath(path)
	if len(parts) == 0 {
		return 0, errors.New("empty path")
	}

	parent := int64(0)
	for i, part := range parts {
		current := taxonomy.JoinPath(parts[:i+1]...)
		if id, ok := r.sctx.Lookup(current); ok {
			parent = id
			continue
		}
		id, err := r.create(ctx, part, parent)
		if err != nil {
			return 0, fmt.Errorf("create %s: %w", current, err)
		}
		parent = id
	}
	return parent, nil
}

// merge folds source into target.
func (r *run) merge(ctx context.Context, source, target int64) error {
	if source == target {
		return nil
	}
	if r.tree().IsAncestor(source, target) {
		return fmt.Errorf("merge %d into %d: %w", source, target, ErrTargetInsideSource)
	}

	for _, child := range r.tree().Children(source) {
		node, ok := r.tree().Node(child)
		if !ok {
			continue
		}
		if existing, ok := r.tree().ChildByName(target, node.Name); ok && existing != child {
			if err := r.merge(ctx, child, existing); err != nil {
				return err
			}
			continue
		}
		if err := r.setParent(ctx, child, target); err != nil {
			return err
		}
	}

	if err := r.reassignProducts(ctx, source, target); err != nil {
		return err
	}

	if err := r.delete(ctx, source); err != nil {
		return err
	}
	r.sctx.Redirects[source] = target
	return nil
}

// reassignProducts moves every product of source onto target and drops the
// target's ancestors from those products.
func (r *run) reassignProducts(ctx context.Context, source, target int64) error {
	if source < 0 {
		return nil
	}

	products, err := r.sync.client.ListProductsByCategory(ctx, source)
	if err != nil {
		return fmt.Errorf("list products of %d: %w", source, err)
	}

	drop := map[int64]bool{source: true}
	for _, id := range r.tree().Ancestors(target) {
		drop[id] = true
	}

	for _, p := range products {
		updated := make([]int64, 0, len(p.CategoryIDs)+1)
		for _, id := range p.CategoryIDs {
			if drop[id] || slices.Contains(updated, id) {
				continue
			}
			updated = append(updated, id)
		}
		if !slices.Contains(updated, target) {
			updated = append(updated, target)
		}
		if slices.Equal(updated, p.CategoryIDs) {
			continue
		}
		if err := r.setProducts(ctx, p, updated); err != nil {
			return err
		}
	}
	return nil
}

// relocate gives a node a new name and parent, in one call when the client
// supports it.
func (r *run) relocate(ctx context.Context, id int64, name string, parent int64) error {
	node, ok := r.tree().Node(id)
	if !ok {
		return fmt.Errorf("node %d not in tree", id)
	}
	if node.Name == name && node.Parent == parent {
		return nil
	}
	if parent != 0 && (parent == id || r.tree().IsAncestor(id, parent)) {
		return fmt.Errorf("relocate %d under %d: %w", id, parent, ErrTargetInsideSource)
	}

	if relocator, ok := r.sync.client.(remote.Relocator); ok && node.Name != name && node.Parent != parent {
		err := r.write(ctx, reconcile.Mutation{Kind: reconcile.MutationRelocate, CategoryID: id, Name: name, ParentID: parent}, func() error {
			return relocator.Relocate(ctx, id, name, parent)
		})
		if err != nil {
			return err
		}
		r.tree().Move(id, name, parent)
		r.sctx.Reindex()
		return nil
	}

	if node.Parent != parent {
		if err := r.setParent(ctx, id, parent); err != nil {
			return err
		}
	}
	if node.Name != name {
		err := r.write(ctx, reconcile.Mutation{Kind: reconcile.MutationRename, CategoryID: id, Name: name}, func() error {
			return r.sync.client.Rename(ctx, id, name)
		})
		if err != nil {
			return err
		}
		r.tree().Move(id, name, parent)
		r.sctx.Reindex()
	}
	return nil
}

func (r *run) create(ctx context.Context, name string, parent int64) (int64, error) {
	m := reconcile.Mutation{Kind: reconcile.MutationCreate, Name: name, ParentID: parent}

	var id int64
	err := r.write(ctx, m, func() error {
		var err error
		id, err = r.sync.client.Create(ctx, name, parent)
		return err
	})
	if err != nil {
		return 0, err
	}
	if r.opts.DryRun {
		id = r.tree().Placeholder()
	}

	r.tree().Add(id, name, parent)
	r.sctx.Reindex()
	return id, nil
}

func (r *run) setParent(ctx context.Context, id, parent int64) error {
	err := r.write(ctx, reconcile.Mutation{Kind: reconcile.MutationReparent, CategoryID: id, ParentID: parent}, func() error {
		return r.sync.client.SetParent(ctx, id, parent)
	})
	if err != nil {
		return err
	}
	node, _ := r.tree().Node(id)
	r.tree().Move(id, node.Name, parent)
	r.sctx.Reindex()
	return nil
}

func (r *run) setProducts(ctx context.Context, p remote.ProductRef, ids []int64) error {
	m := reconcile.Mutation{Kind: reconcile.MutationAssign, ProductID: p.ID, Name: p.Name, CategoryIDs: ids}
	return r.write(ctx, m, func() error {
		return r.sync.client.SetProductCategories(ctx, p.ID, ids)
	})
}

func (r *run) delete(ctx context.Context, id int64) error {
	err := r.write(ctx, reconcile.Mutation{Kind: reconcile.MutationDelete, CategoryID: id}, func() error {
		return r.sync.client.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	r.tree().Remove(id)
	r.sctx.Reindex()
	return nil
}

// write performs one remote mutation, or only logs it in dry-run mode, and
// records it either way.
func (r *run) write(ctx context.Context, m reconcile.Mutation, do func() error) error {
	m.RunID = r.opts.RunID
	m.DryRun = r.opts.DryRun
	m.Reason = r.reason

	fields := []zap.Field{
		zap.String("kind", string(m.Kind)),
		zap.Int64("category_id", m.CategoryID),
		zap.Int64("parent_id", m.ParentID),
		zap.String("name", m.Name),
		zap.String("reason", m.Reason),
	}
	if m.ProductID != 0 {
		fields = append(fields, zap.Int64("product_id", m.ProductID), zap.Int64s("category_ids", m.CategoryIDs))
	}

	var err error
	if r.opts.DryRun {
		r.logger.Info("Would write remote category", fields...)
	} else if err = do(); err != nil {
		m.Error = err.Error()
		r.logger.Error("Remote write failed", append(fields, zap.Error(err))...)
	} else {
		r.logger.Debug("Remote write applied", fields...)
	}

	if recErr := r.sync.recorder.RecordMutation(context.WithoutCancel(ctx), m); recErr != nil {
		r.logger.Warn("Failed to record mutation", zap.Error(recErr))
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", m.Kind, err)
	}
	r.result.Changed++
	return nil
}
