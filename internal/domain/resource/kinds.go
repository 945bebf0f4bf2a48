package resource

var (
	Tasks = Definition{
		Singular: "task",
		Plural:   "tasks",
		Table:    "tasks",
		OrderBy:  "created_at",
	}

	Goals = Definition{
		Singular: "goal",
		Plural:   "goals",
		Table:    "goals",
		OrderBy:  "created_at",
	}

	Milestones = Definition{
		Singular:  "milestone",
		Plural:    "milestones",
		Table:     "milestones",
		OrderBy:   "order_index",
		Ascending: true,
		Normalize: normalizeMilestone,
		Shape:     shapeMilestone,
	}

	Habits = Definition{
		Singular:  "habit",
		Plural:    "habits",
		Table:     "habits",
		OrderBy:   "created_at",
		Normalize: coerceField("active"),
		Shape:     stringifyField("active"),
	}

	HabitLogs = Definition{
		Singular:  "habit log",
		Plural:    "habit logs",
		Table:     "habit_logs",
		OrderBy:   "date",
		Normalize: coerceField("completed"),
		Shape:     stringifyField("completed"),
	}

	Health = Definition{
		Singular: "health data",
		Plural:   "health data",
		Table:    "health_tracking",
		OrderBy:  "date",
		UpsertOn: OwnerColumn + ",date",
	}

	Journal = Definition{
		Singular: "journal entry",
		Plural:   "journal entries",
		Table:    "journal_entries",
		OrderBy:  "date",
	}
)

// coerceField stores field as a real boolean: always on create, on update only
// when the client sent it.
func coerceField(field string) func(Row, bool) {
	return func(body Row, create bool) {
		v, ok := body[field]
		if ok || create {
			body[field] = coerceBool(v)
		}
	}
}

// stringifyField returns field to clients as "true"/"false".
func stringifyField(field string) func(Item) {
	return func(item Item) {
		item[field] = stringBool(item[field])
	}
}

// Клиенты присылают позицию как order, в таблице это order_index.
func normalizeMilestone(body Row, create bool) {
	order, hasOrder := body["order"]
	delete(body, "order")

	if create {
		switch {
		case truthy(order):
			body["order_index"] = order
		case truthy(body["order_index"]):
		default:
			body["order_index"] = 1
		}
		body["completed"] = coerceBool(body["completed"])
		return
	}

	if hasOrder {
		body["order_index"] = order
	}
	if v, ok := body["completed"]; ok {
		body["completed"] = coerceBool(v)
	}
}

func shapeMilestone(item Item) {
	item["order"] = item["order_index"]
}
