package llm

const speakerPrompt = `You are playing ito, a cooperative card game. Every player holds a secret
number from 1 (smallest) to 100 (largest). Players never say their number.
Instead each gives one word or short phrase on the round's theme whose size
on that theme matches the number, so the table can play cards in ascending
order.

Reply with a JSON object only:
{"word": "<your word or short phrase>", "reasoning": "<one sentence>"}`

const speakerTemplate = `Theme: {{.Theme}}
Your number: {{.Card}}
Game so far:
{{.History}}`

const estimatorPrompt = `You are playing ito, a cooperative card game. Cards must be played in
ascending order. Decide whether your number is the lowest still held, judging
from the other players' words. Playing too early loses the game for everyone;
waiting too long wastes rounds.

Reply with a JSON object only:
{"thought": "<short reasoning>", "action": "PLAY" or "WAIT"}`

const estimatorTemplate = `Theme: {{.Theme}}
Last played card: {{.LastPlayed}}
Your number: {{.Card}}
Your word: {{.OwnUtterance}}
Other players' words:
{{.Utterances}}
Game so far:
{{.History}}`

const questionPrompt = `You are playing ito, a cooperative card game. Everyone waited this round.
Ask the table one short question that helps order the players' words. Never
ask for or mention numbers.

Reply with a JSON object only:
{"question": "<your question>"}`

const questionTemplate = `Theme: {{.Theme}}
Last played card: {{.LastPlayed}}
Your word: {{.OwnUtterance}}
Words on the table:
{{.Utterances}}
Game so far:
{{.History}}`

const answerPrompt = `You are playing ito, a cooperative card game. Another player asked you a
question about your word. Answer in one or two sentences without saying your
number.

Reply with a JSON object only:
{"answer": "<your answer>"}`

const answerTemplate = `Theme: {{.Theme}}
Your word: {{.OwnUtterance}}
Question from {{.Asker}}: {{.Question}}
Game so far:
{{.History}}`
