package openai

const pickSchemaName = "pick_recommendation"

// pickSchema is the strict JSON output schema attached to every Responses API
// call. Every property is required; nullable fields use type unions so the
// model can return null instead of omitting keys.
const pickSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": [
    "result", "market", "emoji", "selection", "line", "odds_format", "odds",
    "p_est", "p_implied", "ev", "confidence", "stake_u",
    "high_prob_low_payout", "is_value", "reasons", "risks", "triggers",
    "missing_data", "as_of_utc", "notes"
  ],
  "properties": {
    "result": {"type": "string", "enum": ["BET", "LEAN", "NO_BET"]},
    "market": {"type": ["string", "null"]},
    "emoji": {"type": "string"},
    "selection": {"type": ["string", "null"]},
    "line": {"type": ["number", "null"]},
    "odds_format": {"type": ["string", "null"], "enum": ["decimal", "american", null]},
    "odds": {"type": ["number", "null"]},
    "p_est": {"type": "number", "minimum": 0, "maximum": 1},
    "p_implied": {"type": ["number", "null"]},
    "ev": {"type": ["number", "null"]},
    "confidence": {"type": "integer", "minimum": 0, "maximum": 100},
    "stake_u": {"type": "number", "minimum": 0},
    "high_prob_low_payout": {"type": "boolean"},
    "is_value": {"type": "boolean"},
    "reasons": {"type": "array", "items": {"type": "string"}},
    "risks": {"type": "array", "items": {"type": "string"}},
    "triggers": {"type": "array", "items": {"type": "string"}},
    "missing_data": {"type": "array", "items": {"type": "string"}},
    "as_of_utc": {"type": "string"},
    "notes": {"type": "string"}
  }
}`
