package resource

// Definition describes one resource: its table, default order, how request
// bodies are normalized for storage and how rows are shaped for clients.
type Definition struct {
	Singular string
	Plural   string
	Table    string

	OrderBy   string
	Ascending bool

	// UpsertOn makes create an upsert on these columns.
	UpsertOn string

	Normalize func(body Row, create bool)
	Shape     func(item Item)
}

// Title is the singular name with a capital letter, e.g. "Habit log".
func (d Definition) Title() string {
	return capitalize(d.Singular)
}

func (d Definition) toItem(row Row) Item {
	item := make(Item, len(row)+2)
	item[itemID] = row[IDColumn]
	item[itemOwner] = row[OwnerColumn]
	for k, v := range row {
		item[k] = v
	}
	if d.Shape != nil {
		d.Shape(item)
	}
	return item
}
