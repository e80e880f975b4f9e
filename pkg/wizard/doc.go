// Package wizard implements the multi-step intake form used by every document
// flow: the field schema registry, step definitions, the presence validator,
// the step navigator, draft persistence and the submission coordinator.
//
// A Wizard owns one FormState for one owner and document type. Callers drive it
// with SetField, Next, Back and JumpToStep; Next on the last step submits the
// form through the Coordinator and, on success, clears both the in-memory state
// and the persisted draft.
package wizard
