package engine

// LLM prompt templates — data only, no logic.

// summaryFromTranscriptPrompt summarizes a video from its transcript.
// Args: title, duration string, transcript.
const summaryFromTranscriptPrompt = `You are a video analysis assistant. Summarize the video using ONLY the transcript below.

Video title: %s
Video duration: %s

FORMAT: Markdown with ## section headings. Start with a 2-3 sentence overview,
then cover the main topics in order. Mark key moments inline with their
timestamp in [MM:SS] form (or [HH:MM:SS] past one hour), e.g. "The demo starts [04:30]".

Rules:
- Every inline timestamp must come from the transcript timing — do NOT invent times
- Timestamps must never exceed the video duration
- Cover the whole video, not just the opening minutes
- Do NOT invent content that is not in the transcript
- Answer in the SAME LANGUAGE as the transcript

Transcript:
%s`

// summaryFromVideoInstruction summarizes a video attached as a file part.
// No args — the video itself is the context.
const summaryFromVideoInstruction = `You are a video analysis assistant. Watch the attached video and summarize it.

FORMAT: Markdown with ## section headings. Start with a 2-3 sentence overview,
then cover the main topics in order. Mark key moments inline with their
timestamp in [MM:SS] form (or [HH:MM:SS] past one hour), e.g. "The demo starts [04:30]".

Rules:
- Timestamps must match when things actually happen in the video
- Cover the whole video, not just the opening minutes
- Answer in the SAME LANGUAGE as the video`

// timestampsFromTranscriptPrompt extracts key-moment timestamps from a transcript.
// Args: title, duration string, transcript.
const timestampsFromTranscriptPrompt = `You are a video analysis assistant. Extract the key moments from the transcript below.

Video title: %s
Video duration: %s

Respond with valid JSON only (no markdown, no ` + "```" + ` block) — an array of objects:
[
  {"time": "MM:SS", "description": "what happens at this moment", "seconds": 90},
  {"time": "HH:MM:SS", "description": "another moment", "seconds": 3723}
]

Rules:
- 5-15 moments covering the whole video, in chronological order
- time: MM:SS below one hour, HH:MM:SS above; seconds: the same offset as an integer
- description: one short specific sentence, never empty
- Timestamps must come from the transcript timing and never exceed the video duration
- Do NOT invent moments that are not in the transcript
- Descriptions in the SAME LANGUAGE as the transcript`

// timestampsFromVideoInstruction extracts key moments from an attached video part.
const timestampsFromVideoInstruction = `You are a video analysis assistant. Watch the attached video and extract its key moments.

Respond with valid JSON only (no markdown, no ` + "```" + ` block) — an array of objects:
[
  {"time": "MM:SS", "description": "what happens at this moment", "seconds": 90},
  {"time": "HH:MM:SS", "description": "another moment", "seconds": 3723}
]

Rules:
- 5-15 moments covering the whole video, in chronological order
- time: MM:SS below one hour, HH:MM:SS above; seconds: the same offset as an integer
- description: one short specific sentence, never empty
- Timestamps must match when things actually happen in the video`

// chatFromTranscriptPrompt answers a question about a video from its transcript.
// Args: title, transcript, question.
const chatFromTranscriptPrompt = `You are a video assistant. Answer the question using ONLY the transcript below.

Video title: %s

Transcript:
%s

Rules:
- Answer directly and concisely
- Reference moments with their [MM:SS] timestamp when it helps
- If the transcript does not contain the answer, say so — do NOT invent content
- Answer in the SAME LANGUAGE as the question

Question: %s`

// chatFromVideoInstruction answers a question about an attached video part.
// Args: question.
const chatFromVideoInstruction = `You are a video assistant. Watch the attached video and answer the question.

Rules:
- Answer directly and concisely
- Reference moments with their [MM:SS] timestamp when it helps
- If the video does not contain the answer, say so — do NOT invent content
- Answer in the SAME LANGUAGE as the question

Question: %s`

// frameDescriptionsInstruction describes the visual content of an attached
// video at regular intervals, for embedding-based visual search.
const frameDescriptionsInstruction = `You are a video analysis assistant. Watch the attached video and describe its visual content at regular intervals.

Respond with valid JSON only (no markdown, no ` + "```" + ` block) — an array of objects:
[
  {"time": "MM:SS", "description": "what is visible on screen at this moment"}
]

Rules:
- One entry roughly every 10-20 seconds, in chronological order
- description: concrete visual details — objects, people, text on screen, scene changes
- Describe what is SEEN, not what is said
- time: MM:SS below one hour, HH:MM:SS above`
