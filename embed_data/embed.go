package embed_data

import _ "embed"

//go:embed prompts/initial_assessment.txt
var InitialAssessmentPrompt []byte

//go:embed prompts/notification_assessment.txt
var NotificationAssessmentPrompt []byte

//go:embed prompts/context_awareness.txt
var ContextAwarenessPrompt []byte

//go:embed prompts/notification_writer.txt
var NotificationWriterPrompt []byte

//go:embed prompts/code_writer.txt
var CodeWriterPrompt []byte

//go:embed prompts/chat.txt
var ChatPrompt []byte
