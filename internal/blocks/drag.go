package blocks

// OnDragEnd returns ids with activeID moved to the index of overID. ok is
// false when there is nothing to do: no target, the same element, or an id
// that is not in the list.
func OnDragEnd(ids []string, activeID, overID string) ([]string, bool) {
	if overID == "" || overID == activeID {
		return nil, false
	}

	from, to := -1, -1
	for i, id := range ids {
		switch id {
		case activeID:
			from = i
		case overID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return nil, false
	}

	out := make([]string, 0, len(ids))
	out = append(out, ids[:from]...)
	out = append(out, ids[from+1:]...)
	out = append(out[:to], append([]string{activeID}, out[to:]...)...)
	return out, true
}

// Drag applies a drag gesture to the collection and returns the new order.
func (c *Collection) Drag(activeID, overID string) ([]string, bool, error) {
	order, ok := OnDragEnd(c.IDs(), activeID, overID)
	if !ok {
		return nil, false, nil
	}
	if err := c.Reorder(order); err != nil {
		return nil, false, err
	}
	return order, true, nil
}
