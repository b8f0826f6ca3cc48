package capabilities

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/aretw0/arbor/pkg/domain"
)

// Canned transcripts returned by the mock transcriber. Selection is
// keyed on the call ID so the same call always transcribes identically.
var transcripts = []string{
	`Nurse: Hello, this is Emma from Lakeshore Community Health Center. Am I speaking with the patient?
Patient: Yeah, that's me.
Nurse: I'm calling to check in regarding your recent visit for persistent migraines. How have you been?
Patient: The migraines come and go. Honestly I've been overwhelmed, work is a mess and I'm caring for my mother after her surgery.
Nurse: That sounds like a lot of pressure. Given everything you've described, I think a home visit would help. Would that be okay?
Patient: Yes, a home visit would be good. Thank you, I appreciate it.`,

	`Nurse: Good morning, this is the follow-up team calling about your discharge last week. How are you feeling?
Patient: Much better, thanks. The new medication is working and I have no issues.
Nurse: Great to hear. Do you need anything else from us, or would an in-person check be useful?
Patient: No visit needed, everything is fine. Thanks for the helpful call.`,
}

// Transcribe converts the seeded audio artifact into text. The audio
// bytes are required but not inspected; this is the mock provider.
func Transcribe(ctx context.Context, values domain.Context, params map[string]any) (any, error) {
	inputKey := "audio"
	if k, ok := params[domain.ParamInputKey].(string); ok && k != "" {
		inputKey = k
	}

	if _, ok := values.Lookup(inputKey); !ok {
		return nil, fmt.Errorf("transcription requires %q in the run context", inputKey)
	}

	callID, _ := values.Lookup("call_id")
	h := fnv.New32a()
	fmt.Fprint(h, callID)
	return transcripts[int(h.Sum32())%len(transcripts)], nil
}
