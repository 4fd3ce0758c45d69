package tasks

import "context"

// Prompter asks the user for replacement text. ok is false when the user
// cancelled the prompt.
type Prompter interface {
	Prompt(ctx context.Context, message, current string) (text string, ok bool, err error)
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

type PromptFunc func(ctx context.Context, message, current string) (string, bool, error)

func (f PromptFunc) Prompt(ctx context.Context, message, current string) (string, bool, error) {
	return f(ctx, message, current)
}

type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// Answer returns a Prompter that always answers text.
func Answer(text string) Prompter {
	return PromptFunc(func(context.Context, string, string) (string, bool, error) {
		return text, true, nil
	})
}

// Cancel is a Prompter whose user always cancels.
var Cancel Prompter = PromptFunc(func(context.Context, string, string) (string, bool, error) {
	return "", false, nil
})

// Confirmed returns a Confirmer that always answers yes.
func Confirmed(yes bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) {
		return yes, nil
	})
}
