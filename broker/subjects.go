package broker

// NATS subjects, one per entity. The dispatcher routes outbox rows here and
// the live-update hub subscribes to all of them.
const (
	UserSubject     = "user.events"
	ProfileSubject  = "profile.events"
	NotebookSubject = "notebook.events"
	NoteSubject     = "note.events"
	TagSubject      = "tag.events"
)

// AllSubjects lists every entity subject.
var AllSubjects = []string{
	UserSubject,
	ProfileSubject,
	NotebookSubject,
	NoteSubject,
	TagSubject,
}

// SubjectForEntity maps an outbox entity name to its subject.
func SubjectForEntity(entity string) string {
	switch entity {
	case "user":
		return UserSubject
	case "profile":
		return ProfileSubject
	case "notebook":
		return NotebookSubject
	case "note":
		return NoteSubject
	case "tag", "note_tag":
		return TagSubject
	}
	return entity + ".events"
}

// Event type constants in format: <resource>.<action>
const (
	UserCreatedEvent       = "user.created"
	UserUpdatedEvent       = "user.updated"
	PasswordResetRequested = "user.password_reset_requested"
	PasswordResetCompleted = "user.password_reset_completed"

	ProfileUpdatedEvent       = "profile.updated"
	ProfileAvatarUpdatedEvent = "profile.avatar_updated"
	ProfileAvatarDeletedEvent = "profile.avatar_deleted"

	NotebookCreatedEvent = "notebook.created"
	NotebookUpdatedEvent = "notebook.updated"
	NotebookDeletedEvent = "notebook.deleted"
	NotebookToggledEvent = "notebook.favorite_toggled"

	NoteCreatedEvent = "note.created"
	NoteUpdatedEvent = "note.updated"
	NoteDeletedEvent = "note.deleted"
	NoteToggledEvent = "note.pin_toggled"

	TagCreatedEvent = "tag.created"
	TagAddedEvent   = "tag.added_to_note"
	TagRemovedEvent = "tag.removed_from_note"
)
