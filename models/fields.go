package models

// FieldKey names a column of the client record by its JSON key.
type FieldKey string

const (
	FieldID          FieldKey = "_id"
	FieldName        FieldKey = "name"
	FieldCompany     FieldKey = "company"
	FieldEmail       FieldKey = "email"
	FieldPhone       FieldKey = "phone"
	FieldStatus      FieldKey = "status"
	FieldService     FieldKey = "service"
	FieldBudget      FieldKey = "budget"
	FieldLastContact FieldKey = "lastContact"
	FieldFollowUp    FieldKey = "followUp"
	FieldNotes       FieldKey = "notes"
)

// Field describes one enumerated record field. Search and sort walk this
// list instead of reflecting over the struct.
type Field struct {
	Key      FieldKey
	Label    string
	Sortable bool
	Value    func(Client) string
}

// Fields is the full ordered field list, identifier first.
var Fields = []Field{
	{FieldID, "ID", false, func(c Client) string { return c.ID }},
	{FieldName, "Name", true, func(c Client) string { return c.Name }},
	{FieldCompany, "Company", true, func(c Client) string { return c.Company }},
	{FieldEmail, "Email", true, func(c Client) string { return c.Email }},
	{FieldPhone, "Phone", true, func(c Client) string { return c.Phone }},
	{FieldStatus, "Status", true, func(c Client) string { return string(c.Status) }},
	{FieldService, "Service Interest", true, func(c Client) string { return c.Service }},
	{FieldBudget, "Budget Range", true, func(c Client) string { return c.Budget }},
	{FieldLastContact, "Last Contact", true, func(c Client) string { return c.LastContact }},
	{FieldFollowUp, "Follow-up Date", true, func(c Client) string { return c.FollowUp }},
	{FieldNotes, "Notes", false, func(c Client) string { return c.Notes }},
}

// LookupField returns the field with the given key.
func LookupField(key FieldKey) (Field, bool) {
	for _, field := range Fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

// Columns returns the displayed columns (every field but the identifier).
func Columns() []Field {
	return Fields[1:]
}
