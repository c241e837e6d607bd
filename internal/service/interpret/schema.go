package interpret

// schemaV1 is the contract every intent document must satisfy.
const schemaV1 = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://voicecommand.local/schemas/intent-v1.json",
  "type": "object",
  "required": ["version", "action", "summary", "confidence"],
  "properties": {
    "version": {"const": "v1"},
    "action": {"enum": ["create_task", "create_appointment"]},
    "summary": {"type": "string", "maxLength": 500},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "confidenceLevel": {"enum": ["low", "medium", "high"]},
    "task": {
      "type": "object",
      "required": ["title"],
      "additionalProperties": false,
      "properties": {
        "title": {"type": "string", "minLength": 1, "maxLength": 200},
        "description": {"type": ["string", "null"], "maxLength": 2000},
        "priority": {"enum": ["low", "normal", "high", "urgent"]},
        "dueDate": {"type": ["string", "null"], "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
        "projectHint": {"type": ["string", "null"], "maxLength": 200}
      }
    },
    "appointment": {
      "type": "object",
      "required": ["date", "time"],
      "additionalProperties": false,
      "properties": {
        "title": {"type": ["string", "null"], "maxLength": 200},
        "customerName": {"type": ["string", "null"], "maxLength": 200},
        "date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
        "time": {"type": "string", "pattern": "^([01]\\d|2[0-3]):[0-5]\\d$"},
        "durationMinutes": {"type": ["integer", "null"], "minimum": 5, "maximum": 1440},
        "type": {"enum": ["site_visit", "meeting", "call", "other"]}
      }
    }
  },
  "allOf": [
    {
      "if": {"properties": {"action": {"const": "create_task"}}},
      "then": {"required": ["task"]}
    },
    {
      "if": {"properties": {"action": {"const": "create_appointment"}}},
      "then": {"required": ["appointment"]}
    }
  ]
}`

const schemaURL = "https://voicecommand.local/schemas/intent-v1.json"
